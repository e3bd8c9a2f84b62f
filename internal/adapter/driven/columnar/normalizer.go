package columnar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
)

// NormalizedColumn é uma coluna com tipo definido, pronta para virar array Arrow.
// Apenas o slice correspondente ao Kind é preenchido.
type NormalizedColumn struct {
	Name    string
	Kind    Kind
	Strings []string
	Ints    []int64
	Floats  []float64
	Bools   []bool
	Millis  []int64
	Valid   []bool
}

// Normalizer aplica as regras de tipo do CUR 2.0 a uma Table.
type Normalizer struct {
	console types.ConsoleInterface
}

// NewNormalizer cria um Normalizer que registra avisos no console informado.
func NewNormalizer(console types.ConsoleInterface) *Normalizer {
	return &Normalizer{console: console}
}

// Normalize devolve uma coluna normalizada por coluna de entrada, na mesma ordem.
// Uma falha em um campo não interrompe os demais: o campo recebe o fallback do seu papel.
func (n *Normalizer) Normalize(t *Table) []*NormalizedColumn {
	out := make([]*NormalizedColumn, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = n.normalizeField(col, t.Rows)
	}
	return out
}

func (n *Normalizer) normalizeField(col *Column, rows int) (nc *NormalizedColumn) {
	role := RoleOf(col.Name)
	defer func() {
		if r := recover(); r != nil {
			n.console.LogError("Failed to normalize field %s: %v", col.Name, r)
			nc = fallbackColumn(col, role)
		}
	}()

	switch role {
	case RoleTime:
		return n.normalizeTime(col, rows)
	case RoleString:
		return forcedStringColumn(col)
	case RoleMap:
		return mapColumn(col)
	default:
		return inferColumn(col)
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp interpreta os formatos de data do CUR. Valores com fuso são
// convertidos para UTC; valores sem fuso são tratados como UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (n *Normalizer) normalizeTime(col *Column, rows int) *NormalizedColumn {
	nc := &NormalizedColumn{
		Name:   col.Name,
		Kind:   KindTimestamp,
		Millis: make([]int64, rows),
		Valid:  make([]bool, rows),
	}
	failed := 0
	for i, v := range col.Values {
		if !col.Valid[i] {
			continue
		}
		t, ok := ParseTimestamp(v)
		if !ok {
			failed++
			continue
		}
		nc.Millis[i] = t.UnixMilli()
		nc.Valid[i] = true
	}
	if failed > 0 {
		n.console.LogWarning("Field %s: %d of %d values could not be parsed as timestamps and were stored as null", col.Name, failed, rows)
	}
	return nc
}

func forcedStringColumn(col *Column) *NormalizedColumn {
	nc := &NormalizedColumn{
		Name:    col.Name,
		Kind:    KindString,
		Strings: make([]string, len(col.Values)),
		Valid:   make([]bool, len(col.Values)),
	}
	for i, v := range col.Values {
		if col.Valid[i] {
			nc.Strings[i] = v
		}
		nc.Valid[i] = true
	}
	return nc
}

func mapColumn(col *Column) *NormalizedColumn {
	nc := &NormalizedColumn{
		Name:    col.Name,
		Kind:    KindString,
		Strings: make([]string, len(col.Values)),
		Valid:   make([]bool, len(col.Values)),
	}
	for i, v := range col.Values {
		nc.Strings[i] = NormalizeMapValue(v)
		nc.Valid[i] = true
	}
	return nc
}

// NormalizeMapValue converte o valor de um campo mapa em um objeto JSON de
// strings. Vazio vira "{}"; texto que não é objeto vira {"_value": texto}.
func NormalizeMapValue(v string) string {
	if strings.TrimSpace(v) == "" {
		return "{}"
	}

	dec := json.NewDecoder(strings.NewReader(v))
	dec.UseNumber()
	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil || obj == nil || dec.More() {
		return encodeStringMap(map[string]string{"_value": v})
	}

	flat := make(map[string]string, len(obj))
	for k, val := range obj {
		flat[k] = stringifyJSON(val)
	}
	return encodeStringMap(flat)
}

func stringifyJSON(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return compactJSON(x)
	}
}

func compactJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func encodeStringMap(m map[string]string) string {
	return compactJSON(m)
}

// inferColumn escolhe int64, float64, bool ou string considerando todos os
// valores não nulos. Colunas totalmente nulas são string.
func inferColumn(col *Column) *NormalizedColumn {
	rows := len(col.Values)
	if nc, ok := tryInts(col, rows); ok {
		return nc
	}
	if nc, ok := tryFloats(col, rows); ok {
		return nc
	}
	if nc, ok := tryBools(col, rows); ok {
		return nc
	}
	return rawStringColumn(col)
}

func hasValues(col *Column) bool {
	for _, ok := range col.Valid {
		if ok {
			return true
		}
	}
	return false
}

func tryInts(col *Column, rows int) (*NormalizedColumn, bool) {
	if !hasValues(col) {
		return nil, false
	}
	ints := make([]int64, rows)
	for i, v := range col.Values {
		if !col.Valid[i] {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, false
		}
		ints[i] = n
	}
	return &NormalizedColumn{Name: col.Name, Kind: KindInt64, Ints: ints, Valid: copyValid(col)}, true
}

func tryFloats(col *Column, rows int) (*NormalizedColumn, bool) {
	if !hasValues(col) {
		return nil, false
	}
	floats := make([]float64, rows)
	for i, v := range col.Values {
		if !col.Valid[i] {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		floats[i] = f
	}
	return &NormalizedColumn{Name: col.Name, Kind: KindFloat64, Floats: floats, Valid: copyValid(col)}, true
}

func tryBools(col *Column, rows int) (*NormalizedColumn, bool) {
	if !hasValues(col) {
		return nil, false
	}
	bools := make([]bool, rows)
	for i, v := range col.Values {
		if !col.Valid[i] {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			bools[i] = true
		case "false":
		default:
			return nil, false
		}
	}
	return &NormalizedColumn{Name: col.Name, Kind: KindBool, Bools: bools, Valid: copyValid(col)}, true
}

func rawStringColumn(col *Column) *NormalizedColumn {
	strs := make([]string, len(col.Values))
	copy(strs, col.Values)
	return &NormalizedColumn{Name: col.Name, Kind: KindString, Strings: strs, Valid: copyValid(col)}
}

func copyValid(col *Column) []bool {
	v := make([]bool, len(col.Valid))
	copy(v, col.Valid)
	return v
}

// fallbackColumn mantém o campo como texto quando a normalização falha,
// preservando as garantias de campos mapa e de strings forçadas.
func fallbackColumn(col *Column, role FieldRole) *NormalizedColumn {
	switch role {
	case RoleMap:
		nc := rawStringColumn(col)
		for i := range nc.Strings {
			nc.Strings[i] = "{}"
			nc.Valid[i] = true
		}
		return nc
	case RoleString:
		nc := rawStringColumn(col)
		for i := range nc.Valid {
			nc.Valid[i] = true
		}
		return nc
	default:
		return rawStringColumn(col)
	}
}
