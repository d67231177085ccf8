package emojirepo

import "errors"

var (
	ErrNotFound      = errors.New("emoji not found")
	ErrTagNotFound   = errors.New("tag not found")
	ErrAlreadyExists = errors.New("tag already exists")
)

type SearchRequest struct {
	Keyword string
	Target  string
	Order   string
	Offset  uint64
	Limit   uint64
}
