package entity

import "time"

// AgeGroup is the enumerated age bracket picked during profile setup.
type AgeGroup string

const (
	AgeGroup5to7   AgeGroup = "5-7"
	AgeGroup8to10  AgeGroup = "8-10"
	AgeGroup11to13 AgeGroup = "11-13"
	AgeGroup14to16 AgeGroup = "14-16"
	AgeGroup17to19 AgeGroup = "17-19"
	AgeGroup20to24 AgeGroup = "20-24"
)

// AgeGroups lists every valid bracket, in wizard order.
var AgeGroups = []AgeGroup{
	AgeGroup5to7, AgeGroup8to10, AgeGroup11to13,
	AgeGroup14to16, AgeGroup17to19, AgeGroup20to24,
}

func (a AgeGroup) Valid() bool {
	for _, g := range AgeGroups {
		if a == g {
			return true
		}
	}
	return false
}

// StudentProfile is the onboarding record, one-to-one with User.
// A profile only satisfies the completeness gate when IsCompleted is true;
// a row with IsCompleted=false blocks access the same way a missing row does.
type StudentProfile struct {
	ID          int64
	UserID      string
	Username    string // unique across profiles
	Grade       string
	AgeGroup    AgeGroup
	School      string
	AvatarColor string
	IsCompleted bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
