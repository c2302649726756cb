package http

import (
	"encoding/json"
	"errors"
	"time"

	"relay/internal/adapters/out/feed"
	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/application/usecases/queries"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

// Error is the body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (l Location) toDomain() (kernel.GeoPoint, error) {
	return kernel.NewGeoPoint(l.Lat, l.Lon)
}

func locationFromDomain(p kernel.GeoPoint) Location {
	return Location{Lat: p.Latitude(), Lon: p.Longitude()}
}

type Movement struct {
	Location
	Date time.Time `json:"date"`
}

type Identity struct {
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

func (i Identity) toDomain() (kernel.Identity, error) {
	return kernel.NewIdentity(i.DisplayName, i.PhotoURL, i.Email, i.Phone)
}

type NewPackage struct {
	Origin          Location  `json:"origin"`
	Destination     Location  `json:"destination"`
	DestinationName string    `json:"destination_name,omitempty"`
	DueDate         time.Time `json:"due_date"`
	Category        string    `json:"category"`
	Sender          Identity  `json:"sender"`
	Recipient       Identity  `json:"recipient"`
}

func (r NewPackage) toParams(now time.Time) (commands.CreatePackageParams, error) {
	origin, originErr := r.Origin.toDomain()
	destination, destinationErr := r.Destination.toDomain()
	sender, senderErr := r.Sender.toDomain()
	recipient, recipientErr := r.Recipient.toDomain()
	if err := errors.Join(originErr, destinationErr, senderErr, recipientErr); err != nil {
		return commands.CreatePackageParams{}, err
	}

	return commands.CreatePackageParams{
		Origin:          origin,
		Destination:     destination,
		DestinationName: r.DestinationName,
		DueDate:         r.DueDate,
		Category:        r.Category,
		Sender:          sender,
		Recipient:       recipient,
		CreatedAt:       now,
	}, nil
}

type Created struct {
	ID string `json:"id"`
}

type NearbyPackage struct {
	ID              string   `json:"id"`
	CurrentLocation Location `json:"current_location"`
	Destination     Location `json:"destination"`
	DestinationName *string  `json:"destination_name,omitempty"`
	Category        string   `json:"category"`
	Distance        float64  `json:"distance"`
}

func nearbyFromQuery(rows []queries.GetNearbyPackagesQueryResponse) []NearbyPackage {
	out := make([]NearbyPackage, 0, len(rows))
	for _, r := range rows {
		out = append(out, NearbyPackage{
			ID:              r.ID.String(),
			CurrentLocation: locationFromDomain(r.CurrentLocation),
			Destination:     locationFromDomain(r.Destination),
			DestinationName: r.DestinationName,
			Category:        r.Category,
			Distance:        r.Distance,
		})
	}
	return out
}

type Progress struct {
	TotalDistance        float64 `json:"total_distance"`
	Remaining            float64 `json:"remaining"`
	Percent              float64 `json:"percent"`
	TimeRemainingSeconds int64   `json:"time_remaining_seconds"`
}

func progressFromDomain(p services.RouteProgress) Progress {
	return Progress{
		TotalDistance:        p.TotalDistance,
		Remaining:            p.Remaining,
		Percent:              p.Percent,
		TimeRemainingSeconds: int64(p.TimeRemaining / time.Second),
	}
}

type Marker struct {
	Kind     string   `json:"kind"`
	Location Location `json:"location"`
	Label    string   `json:"label"`
}

// RecordView is a transit record together with its movements.
type RecordView struct {
	feed.TransitRecordDocument
	Movements []feed.MovementDocument `json:"movements"`
}

type PackageView struct {
	Package        feed.PackageDocument `json:"package"`
	TransitRecords []RecordView         `json:"transit_records"`
	Progress       Progress             `json:"progress"`
	Markers        []Marker             `json:"markers"`
}

func packageViewFromQuery(r queries.GetPackageQueryResponse) PackageView {
	view := PackageView{
		Package:        feed.EncodePackage(r.Package),
		TransitRecords: make([]RecordView, 0, len(r.Records)),
		Progress:       progressFromDomain(r.Progress),
		Markers:        make([]Marker, 0, len(r.Markers)),
	}
	for _, record := range r.Records {
		view.TransitRecords = append(view.TransitRecords, recordView(record))
	}
	for _, m := range r.Markers {
		view.Markers = append(view.Markers, Marker{
			Kind:     m.Kind.String(),
			Location: locationFromDomain(m.Point),
			Label:    m.Label,
		})
	}
	return view
}

func recordView(r *transit.Record) RecordView {
	return RecordView{
		TransitRecordDocument: feed.EncodeRecord(r),
		Movements:             feed.EncodeMovements(r).Movements,
	}
}

type Eligibility struct {
	Kind     string   `json:"kind"`
	Distance *float64 `json:"distance,omitempty"`
	Progress Progress `json:"progress"`
}

func eligibilityFromQuery(r queries.GetEligibilityQueryResponse) Eligibility {
	out := Eligibility{
		Kind:     r.Eligibility.Kind.String(),
		Progress: progressFromDomain(r.Progress),
	}
	if r.Eligibility.HasDistance() {
		distance := r.Eligibility.Distance
		out.Distance = &distance
	}
	return out
}

// Reward carries amounts as JSON numbers with two decimals.
type Reward struct {
	Delivered     bool         `json:"delivered"`
	CreditsEarned json.Number  `json:"credits_earned"`
	DeliveryBonus *json.Number `json:"delivery_bonus,omitempty"`
	NewBalance    json.Number  `json:"new_balance"`
}

func rewardFromDomain(r services.Reward) Reward {
	out := Reward{
		Delivered:     r.Delivered,
		CreditsEarned: amount(r.CreditsEarned),
		NewBalance:    amount(r.NewBalance),
	}
	if r.DeliveryBonus != nil {
		bonus := amount(*r.DeliveryBonus)
		out.DeliveryBonus = &bonus
	}
	return out
}

func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
