package entity

import "time"

// ObjectStatus classifica o resultado de uma leitura remota.
type ObjectStatus int

const (
	ObjectFound ObjectStatus = iota
	ObjectNotFound
	ObjectError
)

func (s ObjectStatus) String() string {
	switch s {
	case ObjectFound:
		return "found"
	case ObjectNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// ObjectMetadata descreve um objeto remoto sem o conteúdo.
type ObjectMetadata struct {
	LastModified time.Time
	Size         int64
	ETag         string
}

// ObjectResult é o resultado de um GET: conteúdo, ausência ou erro.
type ObjectResult struct {
	Status ObjectStatus
	Body   []byte
	Err    error
}

// MetadataResult é o resultado de um HEAD.
type MetadataResult struct {
	Status   ObjectStatus
	Metadata ObjectMetadata
	Err      error
}

// ObjectInfo é uma entrada de listagem.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Listing agrega todas as páginas de uma listagem.
type Listing struct {
	Objects        []ObjectInfo
	CommonPrefixes []string
}
