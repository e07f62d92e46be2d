package scheduling

import "github.com/google/uuid"

// SameClinic reports whether a student and a patient may be paired. The check
// is permissive when either side has no clinic assigned: legacy records
// predate clinic assignment and must stay bookable.
// TODO: tighten to require both assignments once the legacy import backfills
// clinic_id on pre-2023 records.
func SameClinic(studentClinic, patientClinic *uuid.UUID) bool {
	if studentClinic == nil || patientClinic == nil {
		return true
	}
	return *studentClinic == *patientClinic
}
