package bracket

import (
	"Fastbreak/models"

	"gorm.io/gorm"
)

// LoadGraph builds the addressable graph for one bracket straight from
// the database, stamping the viewer's edit and undo capabilities. A nil
// viewer yields a read-only graph. Errors surface to the caller; no
// partial graph is ever returned.
func LoadGraph(db *gorm.DB, bracketID uint, viewer *models.User) (*Graph, error) {
	b, err := (&models.Bracket{}).FindBracketByID(db, bracketID)
	if err != nil {
		return nil, err
	}

	matches, err := (&models.Match{}).FindMatchesByBracket(db, bracketID)
	if err != nil {
		return nil, err
	}

	canEdit := false
	canUndo := false
	if viewer != nil {
		canEdit = b.EditableBy(viewer.ID, viewer.IsAdmin)
		canUndo = viewer.IsAdmin && b.IsMaster
	}

	return NewGraph(*b, matches, canEdit, canUndo), nil
}
