package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetModelFieldsProject(t *testing.T) {
	fields := getModelFields(Project{})
	assert.Equal(t, []string{
		"id", "title", "category", "description", "image_url",
		"display_order", "created_at", "updated_at",
	}, fields)
}

func TestGetModelFieldsContactMessage(t *testing.T) {
	fields := getModelFields(ContactMessage{})
	assert.Equal(t, []string{"id", "name", "email", "subject", "message", "created_at"}, fields)
}

func TestExtractColumnNameFromGormTag(t *testing.T) {
	assert.Equal(t, "title", extractColumnNameFromGormTag("column:title;type:text;not null"))
	assert.Equal(t, "image_url", extractColumnNameFromGormTag("type:text; column:image_url"))
	assert.Equal(t, "", extractColumnNameFromGormTag("type:text;not null"))
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches(
		[]string{"id", "title", "legacy_slug", "category"},
		[]string{"id", "title", "category"},
	)
	assert.Equal(t, []string{"legacy_slug"}, got)
	assert.Empty(t, findColumnMismatches([]string{"id"}, []string{"id", "title"}))
}

func TestTablesCoverBothModels(t *testing.T) {
	assert.Contains(t, Tables, "projects")
	assert.Contains(t, Tables, "contact_messages")
}

func TestProjectOptionalText(t *testing.T) {
	var p Project
	assert.Equal(t, "", p.DescriptionText())
	assert.Equal(t, "", p.ImageURLText())

	desc, url := "Leather engraving", "https://cdn.example/p.png"
	p.Description, p.ImageURL = &desc, &url
	assert.Equal(t, desc, p.DescriptionText())
	assert.Equal(t, url, p.ImageURLText())
}
