package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfessorRef is the professor summary embedded in a course.
// The catalog never needs the full user record, only what the card displays.
type ProfessorRef struct {
	ID             primitive.ObjectID `bson:"id" json:"id"`
	LastName       string             `bson:"lastName" json:"lastName"`
	Specialisation string             `bson:"specialisation,omitempty" json:"specialisation,omitempty"`
}

// CourseDate is one weekly slot of a course, e.g. {Lundi, 18h30 – 21h00}.
type CourseDate struct {
	Day  string `bson:"day" json:"day"`
	Time string `bson:"time" json:"time"`
}

// ReviewCount stores a number of reviews that backends report either as a
// plain integer or as a compact string like "1.2K". It always marshals back
// to the integer form.
type ReviewCount int64

func (r *ReviewCount) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*r = ReviewCount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("review count: expected number or string, got %s", data)
	}
	parsed, err := parseCompactCount(s)
	if err != nil {
		return err
	}
	*r = ReviewCount(parsed)
	return nil
}

// Compact renders the count the way course cards display it ("1.2K", "3M").
func (r ReviewCount) Compact() string {
	n := int64(r)
	switch {
	case n >= 1_000_000:
		return trimTrailingZero(float64(n)/1_000_000) + "M"
	case n >= 1_000:
		return trimTrailingZero(float64(n)/1_000) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

func trimTrailingZero(f float64) string {
	s := strconv.FormatFloat(f, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

func parseCompactCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	mult := int64(1)
	switch {
	case strings.HasSuffix(strings.ToUpper(s), "K"):
		mult = 1_000
		s = s[:len(s)-1]
	case strings.HasSuffix(strings.ToUpper(s), "M"):
		mult = 1_000_000
		s = s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("review count: cannot parse %q", s)
	}
	return int64(f * float64(mult)), nil
}

// Course represents a formation offered by a professor. It is the single
// canonical schema: repository and API layers both map onto it, never onto
// the field-name variants older clients used (teacher vs professor,
// category vs subject).
type Course struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Subject         string             `bson:"subject,omitempty" json:"subject,omitempty"` // Category label, matched case-insensitively
	Professor       ProfessorRef       `bson:"professor" json:"professor"`
	Price           float64            `bson:"price" json:"price"` // MAD per month
	Rating          float64            `bson:"rating" json:"rating"`
	NumberOfReviews ReviewCount        `bson:"numberOfReviews" json:"numberOfReviews"`
	ThumbnailKey    string             `bson:"thumbnailKey,omitempty" json:"-"` // S3 object key, presigned on read
	ThumbnailURL    string             `bson:"-" json:"thumbnail,omitempty"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Dates           []CourseDate       `bson:"dates,omitempty" json:"dates,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
