package session

import (
	"context"
	"fmt"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/services"
)

type admission struct {
	location kernel.GeoPoint
	err      error
}

// RequestPickup asks the gateway to hand the package to the user. It is
// rejected locally unless the current eligibility is pickupAvailable.
func (s *Session) RequestPickup(ctx context.Context) (services.Reward, error) {
	location, err := s.admit(func(st *state) error {
		if st.view.Eligibility.Kind != services.PickupAvailable {
			return fmt.Errorf("%w: pickup is not available (%s)", ErrPreconditionFailed, st.view.Eligibility)
		}
		return nil
	})
	if err != nil {
		return services.Reward{}, err
	}
	defer s.release()

	reward, err := s.gateway.RequestPickup(ctx, s.packageID, location)
	if err != nil {
		s.logger.Info("pickup rejected", "error", err)
		return services.Reward{}, err
	}
	return reward, nil
}

// RequestDropoff asks the gateway to close the user's transit record at the
// current location. It is rejected locally unless the user holds the package
// and a location is known.
func (s *Session) RequestDropoff(ctx context.Context) (services.Reward, error) {
	location, err := s.admit(func(st *state) error {
		if st.pkg == nil || !st.pkg.IsHeldBy(s.userID) {
			return fmt.Errorf("%w: package is not held by this user", ErrPreconditionFailed)
		}
		kind := st.view.Eligibility.Kind
		if kind != services.Deliver && kind != services.DropoffAway {
			return fmt.Errorf("%w: dropoff is not available (%s)", ErrPreconditionFailed, st.view.Eligibility)
		}
		return nil
	})
	if err != nil {
		return services.Reward{}, err
	}
	defer s.release()

	reward, err := s.gateway.RequestDropoff(ctx, s.packageID, location)
	if err != nil {
		s.logger.Info("dropoff rejected", "error", err)
		return services.Reward{}, err
	}
	return reward, nil
}

// admit checks the precondition and marks a request in flight, atomically
// with respect to every other input.
func (s *Session) admit(precondition func(*state) error) (kernel.GeoPoint, error) {
	result, err := call(s, func(st *state) admission {
		if st.inFlight {
			return admission{err: ErrRequestInFlight}
		}
		if err := precondition(st); err != nil {
			return admission{err: err}
		}
		if st.location == nil {
			return admission{err: fmt.Errorf("%w: no location", ErrPreconditionFailed)}
		}

		st.inFlight = true
		s.recompute(st)
		return admission{location: *st.location}
	})
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	return result.location, result.err
}

// release clears the in-flight flag once the gateway has answered.
func (s *Session) release() {
	_ = s.post(func(st *state) {
		st.inFlight = false
		s.recompute(st)
	})
}
