package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrInvalidManifest indica um manifest sem a estrutura mínima esperada.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest é o documento JSON publicado pela AWS para cada partição de um export.
type Manifest struct {
	DataFiles []string
	// Skipped conta entradas de dataFiles com formato não suportado.
	Skipped int
}

// ParseManifest decodifica o manifest. Entradas podem ser uma string (a chave)
// ou um objeto com o campo "key"; qualquer outra forma é ignorada e contabilizada.
func ParseManifest(b []byte) (*Manifest, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	raw, ok := doc["dataFiles"]
	if !ok {
		return nil, fmt.Errorf("%w: missing dataFiles", ErrInvalidManifest)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: dataFiles is not a list", ErrInvalidManifest)
	}

	m := &Manifest{DataFiles: make([]string, 0, len(entries))}
	for _, e := range entries {
		if key, ok := dataFileKey(e); ok {
			m.DataFiles = append(m.DataFiles, key)
			continue
		}
		m.Skipped++
	}
	return m, nil
}

func dataFileKey(e json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(e, &s); err == nil {
		return s, s != ""
	}
	var obj struct {
		Key *string `json:"key"`
	}
	if err := json.Unmarshal(e, &obj); err == nil && obj.Key != nil && *obj.Key != "" {
		return *obj.Key, true
	}
	return "", false
}

// ManifestPath monta <prefix>/<report>/metadata/<partition>/<report>-Manifest.json.
func ManifestPath(prefix, reportName, partition string) string {
	return joinKey(prefix, reportName, "metadata", partition, reportName+"-Manifest.json")
}

// ReportMetadataPrefix é o diretório listado para descobrir partições.
func ReportMetadataPrefix(prefix, reportName string) string {
	return joinKey(prefix, reportName, "metadata") + "/"
}

// NormalizeSourceKey converte uma entrada do manifest em chave relativa ao bucket de origem.
// URIs "s3://" perdem o esquema e o bucket, seja ele qual for; chaves prefixadas
// pelo bucket da conta perdem esse prefixo.
func NormalizeSourceKey(bucket, key string) string {
	if rest, ok := strings.CutPrefix(key, "s3://"); ok {
		_, key, _ = strings.Cut(rest, "/")
	} else if bucket != "" {
		key = strings.TrimPrefix(key, bucket+"/")
	}
	return strings.TrimLeft(key, "/")
}

func joinKey(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			kept = append(kept, p)
		}
	}
	return path.Join(kept...)
}
