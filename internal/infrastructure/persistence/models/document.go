package models

import (
	"github.com/salespulse/backend/internal/domain/document"
	"github.com/salespulse/backend/internal/domain/identity"
)

// DocumentModel is the persistence model for the Document domain entity.
// Only metadata lives here; the file bytes live in object storage under
// StorageKey.
type DocumentModel struct {
	TeamAggregateModel
	Title       string        `gorm:"type:varchar(200);not null"`
	FileName    string        `gorm:"type:varchar(255);not null"`
	ContentType string        `gorm:"type:varchar(100)"`
	SizeBytes   int64         `gorm:"not null;default:0"`
	StorageKey  string        `gorm:"type:varchar(500);not null;uniqueIndex"`
	MinRole     identity.Role `gorm:"type:varchar(20);not null;default:'agent'"`
	Description string        `gorm:"type:text"`
	Downloads   int64         `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document entity.
func (m *DocumentModel) ToDomain() *document.Document {
	d := &document.Document{
		Title:       m.Title,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		StorageKey:  m.StorageKey,
		MinRole:     m.MinRole,
		Description: m.Description,
		Downloads:   m.Downloads,
	}
	m.PopulateTeamAggregateRoot(&d.TeamAggregateRoot)
	return d
}

// FromDomain populates the persistence model from a domain Document entity.
func (m *DocumentModel) FromDomain(d *document.Document) {
	m.FromDomainTeamAggregateRoot(d.TeamAggregateRoot)
	m.Title = d.Title
	m.FileName = d.FileName
	m.ContentType = d.ContentType
	m.SizeBytes = d.SizeBytes
	m.StorageKey = d.StorageKey
	m.MinRole = d.MinRole
	m.Description = d.Description
	m.Downloads = d.Downloads
}

// DocumentModelFromDomain creates a new persistence model from a domain Document entity.
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}
