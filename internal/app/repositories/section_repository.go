package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/store"
)

var sectionCollections = map[models.Section]string{
	models.SectionStudent:     store.Students,
	models.SectionMedical:     store.MedicalInfo,
	models.SectionFamily:      store.FamilyInfo,
	models.SectionFee:         store.FeeResponsibility,
	models.SectionAcademic:    store.AcademicHistory,
	models.SectionDeclaration: store.Declarations,
}

// CollectionFor returns the collection that stores a section
func CollectionFor(section models.Section) (string, error) {
	collection, ok := sectionCollections[section]
	if !ok {
		return "", fmt.Errorf("unknown section %q", section)
	}
	return collection, nil
}

// SectionRepository stores the per-application section records, one row per
// application in each section collection.
type SectionRepository struct {
	store store.Store
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(s store.Store) *SectionRepository {
	return &SectionRepository{
		store: s,
	}
}

// Get returns the section row of an application or nil
func (r *SectionRepository) Get(ctx context.Context, section models.Section, applicationID string) (store.Record, error) {
	collection, err := CollectionFor(section)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Find(ctx, collection, store.Filter{"application_id": applicationID})
	if err != nil {
		return nil, dbError(fmt.Sprintf("Failed to fetch %s information", section), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Upsert writes fields into the section row keyed by application_id. Only the
// given fields change on an existing row.
func (r *SectionRepository) Upsert(ctx context.Context, section models.Section, applicationID string, fields map[string]interface{}) (store.Record, error) {
	collection, err := CollectionFor(section)
	if err != nil {
		return nil, err
	}
	rec := store.Record(fields).Clone()
	rec["application_id"] = applicationID

	saved, err := r.store.Upsert(ctx, collection, rec, "application_id")
	if err != nil {
		return nil, dbError(fmt.Sprintf("Failed to save %s information", section), err)
	}
	return saved, nil
}

// Update changes fields of an existing section row and never creates one.
// It returns nil when the application has no row in the section.
func (r *SectionRepository) Update(ctx context.Context, section models.Section, applicationID string, fields map[string]interface{}) (store.Record, error) {
	collection, err := CollectionFor(section)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Update(ctx, collection, store.Filter{"application_id": applicationID}, store.Record(fields))
	if err != nil {
		return nil, dbError(fmt.Sprintf("Failed to update %s information", section), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Delete removes the section row and reports whether it existed
func (r *SectionRepository) Delete(ctx context.Context, section models.Section, applicationID string) (bool, error) {
	collection, err := CollectionFor(section)
	if err != nil {
		return false, err
	}
	deleted, err := r.store.Delete(ctx, collection, store.Filter{"application_id": applicationID})
	if err != nil {
		return false, dbError(fmt.Sprintf("Failed to delete %s information", section), err)
	}
	return deleted, nil
}
