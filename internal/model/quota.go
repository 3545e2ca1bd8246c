package model

import (
	"github.com/google/uuid"
)

type QuotaKind string

const (
	QuotaKindImage  = QuotaKind("image")
	QuotaKindSearch = QuotaKind("search")
)

// QuotaRecord is one (user, kind, day) counter. The date is day
// granular; a stored date differing from today means the counter has
// expired and restarts at 1 on the next consume.
type QuotaRecord struct {
	UserID uuid.UUID
	Date   string
	Count  int
}

type QuotaDecision struct {
	Allowed   bool
	Remaining int
}
