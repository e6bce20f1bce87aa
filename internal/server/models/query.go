package models

// FindParams narrows a listing. Zero values mean no filter, storage order
// and no limit.
type FindParams struct {
	Search string
	SortBy string
	Limit  int
}

// DeleteMode selects what a delete request does to a record.
type DeleteMode string

const (
	DeleteErase   DeleteMode = "erase"
	DeleteTrash   DeleteMode = "trash"
	DeleteRestore DeleteMode = "restore"
)

func (m DeleteMode) Valid() bool {
	switch m {
	case DeleteErase, DeleteTrash, DeleteRestore:
		return true
	}
	return false
}
