package queries

import (
	"context"

	"relay/internal/core/domain/services"
)

// GetPackageQueryHandler assembles package views from the repositories.
type GetPackageQueryHandler struct {
	uowFactory ReadUoWFactory
}

func NewGetPackageQueryHandler(uowFactory ReadUoWFactory) GetPackageQueryHandler {
	return GetPackageQueryHandler{uowFactory: uowFactory}
}

// Handle returns errs.ErrObjectNotFound for unknown packages.
func (h GetPackageQueryHandler) Handle(ctx context.Context, query GetPackageQuery) (GetPackageQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPackageQueryResponse{}, err
	}

	uow := h.uowFactory.Create()

	pkg, err := uow.PackageRepository().Get(ctx, query.PackageID())
	if err != nil {
		return GetPackageQueryResponse{}, err
	}

	records, err := uow.TransitRecordRepository().GetAllByPackage(ctx, query.PackageID())
	if err != nil {
		return GetPackageQueryResponse{}, err
	}

	return GetPackageQueryResponse{
		Package:  pkg,
		Records:  records,
		Progress: services.CalculateRouteProgress(pkg, query.At()),
		Markers:  services.Markers(pkg, records),
	}, nil
}
