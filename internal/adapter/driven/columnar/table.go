package columnar

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column guarda as células cruas de uma coluna do CSV. Célula vazia é nula.
type Column struct {
	Name   string
	Values []string
	Valid  []bool
}

// Table é o CSV de um export carregado em colunas, na ordem do cabeçalho.
type Table struct {
	Columns []*Column
	Rows    int
}

// ErrEmptyCSV indica um arquivo sem linha de cabeçalho.
var ErrEmptyCSV = errors.New("csv has no header row")

// ReadCSV carrega o CSV com cabeçalho em uma Table. Linhas com número de
// campos diferente do cabeçalho são erro.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("error reading csv header: %w", err)
	}

	t := &Table{Columns: make([]*Column, len(header))}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		t.Columns[i] = &Column{Name: strings.TrimSpace(name)}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading csv row %d: %w", t.Rows+1, err)
		}
		for i, v := range rec {
			col := t.Columns[i]
			col.Values = append(col.Values, v)
			col.Valid = append(col.Valid, v != "")
		}
		t.Rows++
	}

	return t, nil
}

// Column devolve a coluna com o nome informado, ou nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}
