package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/diillson/cur2-parquet-sync/internal/domain/entity"
)

type fakeAccounts struct {
	accounts []entity.Account
	err      error
}

func (f *fakeAccounts) ListAccounts(_ context.Context, filter entity.AccountFilter) ([]entity.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.Account
	for _, a := range f.accounts {
		if filter.PayerID != "" && a.AccountID != filter.PayerID {
			continue
		}
		if filter.Tier != nil && a.ReportName(*filter.Tier) == "" {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type storedObject struct {
	body         []byte
	lastModified time.Time
}

// fakeStore simula os buckets de origem e destino em memória.
type fakeStore struct {
	mu       sync.Mutex
	source   map[string]storedObject
	target   map[string][]byte
	puts     []string
	deletes  []string
	failPut  map[string]bool
	headErrs map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		source:   map[string]storedObject{},
		target:   map[string][]byte{},
		failPut:  map[string]bool{},
		headErrs: map[string]error{},
	}
}

func (s *fakeStore) putSource(key string, body []byte, mtime time.Time) {
	s.source[key] = storedObject{body: body, lastModified: mtime}
}

func (s *fakeStore) GetObject(_ context.Context, _ entity.Account, key string) entity.ObjectResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.source[key]
	if !ok {
		return entity.ObjectResult{Status: entity.ObjectNotFound}
	}
	return entity.ObjectResult{Status: entity.ObjectFound, Body: obj.body}
}

func (s *fakeStore) GetObjectMetadata(_ context.Context, _ entity.Account, key string) entity.MetadataResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.headErrs[key]; ok {
		return entity.MetadataResult{Status: entity.ObjectError, Err: err}
	}
	obj, ok := s.source[key]
	if !ok {
		return entity.MetadataResult{Status: entity.ObjectNotFound}
	}
	return entity.MetadataResult{
		Status:   entity.ObjectFound,
		Metadata: entity.ObjectMetadata{LastModified: obj.lastModified, Size: int64(len(obj.body))},
	}
}

func listKeys(keys []string, prefix, delimiter string) entity.Listing {
	sort.Strings(keys)
	var listing entity.Listing
	seen := map[string]bool{}
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		if delimiter != "" {
			if i := strings.Index(rest, delimiter); i >= 0 {
				cp := prefix + rest[:i+len(delimiter)]
				if !seen[cp] {
					seen[cp] = true
					listing.CommonPrefixes = append(listing.CommonPrefixes, cp)
				}
				continue
			}
		}
		listing.Objects = append(listing.Objects, entity.ObjectInfo{Key: k})
	}
	return listing
}

func (s *fakeStore) ListSource(_ context.Context, _ entity.Account, prefix, delimiter string) (entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.source))
	for k := range s.source {
		keys = append(keys, k)
	}
	return listKeys(keys, prefix, delimiter), nil
}

func (s *fakeStore) CheckObjectExists(_ context.Context, key string) (bool, *entity.ObjectMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.target[key]
	if !ok {
		return false, nil
	}
	return true, &entity.ObjectMetadata{Size: int64(len(b))}
}

func (s *fakeStore) PutObject(_ context.Context, key string, body []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut[key] {
		return false
	}
	s.target[key] = body
	s.puts = append(s.puts, key)
	return true
}

func (s *fakeStore) ListTarget(_ context.Context, prefix, delimiter string) (entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.target))
	for k := range s.target {
		keys = append(keys, k)
	}
	return listKeys(keys, prefix, delimiter), nil
}

func (s *fakeStore) DeleteTarget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.target[key]; !ok {
		return errors.New("no such key")
	}
	delete(s.target, key)
	s.deletes = append(s.deletes, key)
	return nil
}

// fakeConverter marca o conteúdo convertido e falha para entradas com prefixo "CORRUPT".
type fakeConverter struct {
	calls int
}

func (c *fakeConverter) Convert(_ context.Context, content []byte) ([]byte, error) {
	c.calls++
	if strings.HasPrefix(string(content), "CORRUPT") {
		return nil, errors.New("gzip: invalid header")
	}
	return append([]byte("PAR1:"), content...), nil
}

type memLedger struct {
	records map[string]entity.ProcessingRecord
	upserts int
	err     error
}

func newMemLedger() *memLedger {
	return &memLedger{records: map[string]entity.ProcessingRecord{}}
}

func (l *memLedger) Get(_ context.Context, accountID, manifestPath string) (*entity.ProcessingRecord, error) {
	if l.err != nil {
		return nil, l.err
	}
	rec, ok := l.records[accountID+"|"+manifestPath]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (l *memLedger) Upsert(_ context.Context, rec entity.ProcessingRecord) error {
	if l.err != nil {
		return l.err
	}
	l.upserts++
	l.records[rec.AccountID+"|"+rec.ManifestPath] = rec
	return nil
}

type fakeMetrics struct {
	files     int
	manifests map[string]int
	deleted   int
	finished  bool
	failed    bool
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{manifests: map[string]int{}}
}

func (m *fakeMetrics) ObserveFile(string, bool, int) { m.files++ }
func (m *fakeMetrics) ObserveManifest(_ string, state string) { m.manifests[state]++ }
func (m *fakeMetrics) ObserveDeleted(_ string, n int) { m.deleted += n }

func (m *fakeMetrics) Finish(_ string, failed bool) error {
	m.finished = true
	m.failed = failed
	return nil
}

type fakeIdentity struct {
	accounts map[string]string
}

func (f *fakeIdentity) CallerAccount(_ context.Context, a entity.Account) (string, error) {
	id, ok := f.accounts[a.AccountID]
	if !ok {
		return "", errors.New("InvalidClientTokenId")
	}
	return id, nil
}
