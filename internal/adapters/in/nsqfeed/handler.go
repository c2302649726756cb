// Package nsqfeed consumes the relay change feed from NSQ and feeds the
// documents of one package into a session.
package nsqfeed

import (
	"encoding/json"
	"log/slog"

	"relay/internal/adapters/out/feed"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/ports"
)

// Target receives decoded documents of a single package.
type Target interface {
	PackageID() kernel.UUID
	ApplyPackage(pkg *parcel.Package) error
	ApplyMalformedPackage(cause error) error
	ApplyRecordChanges(changes []transit.RecordChange) error
	ApplyMovements(change transit.MovementsChange) error
}

// Handler decodes change feed bodies and forwards the ones that belong to the
// target package. It never asks for redelivery: a document that cannot be
// decoded will not decode on a second attempt either.
type Handler struct {
	target Target
	logger *slog.Logger
}

func NewHandler(target Target, logger *slog.Logger) *Handler {
	return &Handler{
		target: target,
		logger: logger.With("component", "feed_handler"),
	}
}

// Handle processes one message body published on topic.
func (h *Handler) Handle(topic string, body []byte) {
	var err error
	switch topic {
	case ports.TopicPackageChanged:
		err = h.handlePackage(body)
	case ports.TopicTransitRecordsChanged:
		err = h.handleRecords(body)
	case ports.TopicMovementsChanged:
		err = h.handleMovements(body)
	default:
		h.logger.Warn("unexpected topic", "topic", topic)
		return
	}

	if err != nil {
		h.logger.Warn("change not applied", "topic", topic, "error", err)
	}
}

func (h *Handler) handlePackage(body []byte) error {
	if !h.concerns(peekID(body, "id")) {
		return nil
	}

	pkg, err := feed.UnmarshalPackageChanged(body)
	if err != nil {
		return h.target.ApplyMalformedPackage(err)
	}
	return h.target.ApplyPackage(pkg)
}

// handleRecords drops an undecodable batch and keeps the last known records.
func (h *Handler) handleRecords(body []byte) error {
	if !h.concerns(peekID(body, "package_id")) {
		return nil
	}

	_, changes, err := feed.UnmarshalTransitRecordsChanged(body)
	if err != nil {
		return err
	}
	return h.target.ApplyRecordChanges(changes)
}

func (h *Handler) handleMovements(body []byte) error {
	if !h.concerns(peekID(body, "package_id")) {
		return nil
	}

	change, err := feed.UnmarshalMovementsChanged(body)
	if err != nil {
		return err
	}
	return h.target.ApplyMovements(change)
}

func (h *Handler) concerns(id string) bool {
	return id == h.target.PackageID().String()
}

// peekID reads a single string field without decoding the whole document.
func peekID(body []byte, field string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	var id string
	if err := json.Unmarshal(fields[field], &id); err != nil {
		return ""
	}
	return id
}
