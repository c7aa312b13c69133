// Package recipe contains the recipe, tag and ingredient endpoints
package recipe

import (
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/service"
	"bitwise74/recipe-api/internal/storage"
)

type attrRecord struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func attrRecords[T service.Attribute](rows []T) []attrRecord {
	out := make([]attrRecord, len(rows))
	for i, r := range rows {
		ref := service.RefOf(r)
		out[i] = attrRecord{ID: ref.ID, Name: ref.Name}
	}

	return out
}

// record is what recipe listings return
type record struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       string       `json:"price"`
	Link        string       `json:"link"`
	Tags        []attrRecord `json:"tags"`
	Ingredients []attrRecord `json:"ingredients"`
}

// detail extends record with the fields only a single recipe returns
type detail struct {
	record
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

type imageRecord struct {
	ID    uint    `json:"id"`
	Image *string `json:"image"`
}

func toRecord(r *model.Recipe) record {
	return record{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        attrRecords(r.Tags),
		Ingredients: attrRecords(r.Ingredients),
	}
}

func toDetail(r *model.Recipe, s storage.Store) detail {
	return detail{
		record:      toRecord(r),
		Description: r.Description,
		Image:       imageURL(r.Image, s),
	}
}

func imageURL(key string, s storage.Store) *string {
	if key == "" {
		return nil
	}

	u := s.URL(key)
	return &u
}
