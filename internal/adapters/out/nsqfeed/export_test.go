package nsqfeed

type Producer = producer

var NewPublisherWithProducer = newPublisher
