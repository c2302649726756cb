package session

import (
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/ports"
)

// applyFix is the location source sink. A failed fix clears the location.
func (s *Session) applyFix(fix ports.LocationFix) {
	err := s.post(func(st *state) {
		if fix.Err != nil {
			s.logger.Warn("location unavailable", "error", fix.Err)
			st.location = nil
		} else {
			point := fix.Point
			st.location = &point
		}
		s.recompute(st)
	})
	if err != nil {
		s.logger.Debug("location fix dropped", "error", err)
	}
}

// ApplyPackage replaces the package snapshot. Snapshots of other packages
// and snapshots older than the last applied version are ignored.
func (s *Session) ApplyPackage(pkg *parcel.Package) error {
	if pkg == nil || !pkg.ID().IsEqual(s.packageID) {
		return nil
	}
	return s.post(func(st *state) {
		if pkg.Version() < st.version {
			s.logger.Debug("stale package snapshot dropped", "version", pkg.Version(), "current", st.version)
			return
		}
		st.version = pkg.Version()
		st.pkg = pkg
		s.recompute(st)
	})
}

// ApplyMalformedPackage records that the latest snapshot could not be read.
// Until a valid snapshot arrives the eligibility is indeterminate.
func (s *Session) ApplyMalformedPackage(cause error) error {
	return s.post(func(st *state) {
		s.logger.Warn("malformed package snapshot", "error", cause)
		st.pkg = nil
		s.recompute(st)
	})
}

// ApplyRecordChanges merges one change batch into the record collection.
func (s *Session) ApplyRecordChanges(changes []transit.RecordChange) error {
	if len(changes) == 0 {
		return nil
	}
	return s.post(func(st *state) {
		st.records = s.sync.Apply(st.records, changes)
		s.recompute(st)
	})
}

// ApplyMovements replaces the movement list of one record.
func (s *Session) ApplyMovements(change transit.MovementsChange) error {
	if !change.PackageID.IsEqual(s.packageID) {
		return nil
	}
	return s.post(func(st *state) {
		st.records = s.sync.ReplaceMovements(st.records, change)
		s.recompute(st)
	})
}
