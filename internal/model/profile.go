package model

import (
	"slices"
	"time"
)

type Pronouns string

const (
	PronounsShe    Pronouns = "SHE"
	PronounsHe     Pronouns = "HE"
	PronounsThey   Pronouns = "THEY"
	PronounsCustom Pronouns = "CUSTOM"
	PronounsNone   Pronouns = "NONE"
)

var validPronouns = []Pronouns{PronounsShe, PronounsHe, PronounsThey, PronounsCustom, PronounsNone}

func (p Pronouns) Valid() bool {
	return slices.Contains(validPronouns, p)
}

type Gender string

const (
	GenderFemale Gender = "FEMALE"
	GenderMale   Gender = "MALE"
	GenderCustom Gender = "CUSTOM"
	GenderNone   Gender = "NONE"
)

var validGenders = []Gender{GenderFemale, GenderMale, GenderCustom, GenderNone}

func (g Gender) Valid() bool {
	return slices.Contains(validGenders, g)
}

// UserProfile shares its primary key with the user it belongs to
type UserProfile struct {
	UserID    string     `gorm:"primaryKey;size:16"`
	Picture   string     `gorm:"size:255"`
	Bio       string     `gorm:"size:225"`
	DOB       *time.Time `gorm:"column:dob;type:date"`
	Pronouns  Pronouns   `gorm:"size:20;not null;default:NONE"`
	Gender    Gender     `gorm:"size:20;not null;default:NONE"`
	CreatedOn time.Time  `gorm:"autoCreateTime"`
}
