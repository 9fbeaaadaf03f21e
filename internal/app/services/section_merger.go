package services

import (
	"context"
	"strings"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// SectionMerger writes section data keyed by application id. Partial writes only
// touch the supplied columns; full writes cover the whole schema.
type SectionMerger struct {
	sectionRepo *repositories.SectionRepository
}

// NewSectionMerger creates a new section merger
func NewSectionMerger(sectionRepo *repositories.SectionRepository) *SectionMerger {
	return &SectionMerger{
		sectionRepo: sectionRepo,
	}
}

// MergeSection upserts the sparse fields into the section row of the application.
// It reports false without writing when fields is empty.
func (m *SectionMerger) MergeSection(ctx context.Context, applicationID string, section models.Section, fields map[string]interface{}) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}
	if section == models.SectionFamily {
		fields = normalizeFamily(fields)
	}
	if _, err := m.sectionRepo.Upsert(ctx, section, applicationID, fields); err != nil {
		return false, err
	}

	logger.Debug().
		Str("application_id", applicationID).
		Str("section", string(section)).
		Int("fields", len(fields)).
		Msg("Merged section")
	return true, nil
}

// WriteSection upserts a full section. Callers pass every schema field, unset
// optionals as nil, so stale values from earlier partial saves are cleared.
func (m *SectionMerger) WriteSection(ctx context.Context, applicationID string, section models.Section, fields map[string]interface{}) error {
	if section == models.SectionFamily {
		fields = normalizeFamily(fields)
	}
	_, err := m.sectionRepo.Upsert(ctx, section, applicationID, fields)
	return err
}

// normalizeFamily cleans the next of kin columns. Other columns pass through.
func normalizeFamily(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}

	apply := func(key string, fn func(string) string) {
		if s, ok := out[key].(string); ok {
			out[key] = fn(s)
		}
	}
	titled := func(s string) string { return helpers.TitleCase(strings.TrimSpace(s)) }
	lowered := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

	apply("next_of_kin_surname", titled)
	apply("next_of_kin_first_name", titled)
	apply("next_of_kin_relationship", lowered)
	apply("next_of_kin_email", lowered)
	apply("next_of_kin_mobile", helpers.SanitizeMobile)
	return out
}
