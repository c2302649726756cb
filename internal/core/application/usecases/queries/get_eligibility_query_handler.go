package queries

import (
	"context"

	"relay/internal/core/domain/services"
)

// GetEligibilityQueryHandler evaluates the decision table server-side.
type GetEligibilityQueryHandler struct {
	uowFactory ReadUoWFactory
}

func NewGetEligibilityQueryHandler(uowFactory ReadUoWFactory) GetEligibilityQueryHandler {
	return GetEligibilityQueryHandler{uowFactory: uowFactory}
}

func (h GetEligibilityQueryHandler) Handle(
	ctx context.Context,
	query GetEligibilityQuery,
) (GetEligibilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetEligibilityQueryResponse{}, err
	}

	uow := h.uowFactory.Create()

	pkg, err := uow.PackageRepository().Get(ctx, query.packageID)
	if err != nil {
		return GetEligibilityQueryResponse{}, err
	}

	records, err := uow.TransitRecordRepository().GetAllByPackage(ctx, query.packageID)
	if err != nil {
		return GetEligibilityQueryResponse{}, err
	}

	return GetEligibilityQueryResponse{
		Eligibility: services.EligibilityFor(pkg, records, query.userID, query.location),
		Progress:    services.CalculateRouteProgress(pkg, query.at),
	}, nil
}
