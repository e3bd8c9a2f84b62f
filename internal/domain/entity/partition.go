package entity

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"
)

// PartitionKey é a chave Hive usada nos exports CUR 2.0.
const PartitionKey = "BILLING_PERIOD"

// ErrNoPartition indica que o caminho não contém um segmento BILLING_PERIOD=.
var ErrNoPartition = errors.New("path has no BILLING_PERIOD partition")

var (
	partitionRe       = regexp.MustCompile(`BILLING_PERIOD=[^/]+`)
	partitionFilterRe = regexp.MustCompile(`^BILLING_PERIOD=[^/]+$`)
)

// ExtractPartition devolve o primeiro segmento BILLING_PERIOD=... encontrado no caminho.
func ExtractPartition(path string) (string, bool) {
	m := partitionRe.FindString(path)
	return m, m != ""
}

// PartitionPeriod devolve o valor após "BILLING_PERIOD=".
func PartitionPeriod(partition string) string {
	return partition[len(PartitionKey)+1:]
}

// ValidatePartitionFilter valida o valor do filtro --path.
func ValidatePartitionFilter(s string) error {
	if !partitionFilterRe.MatchString(s) {
		return fmt.Errorf("partition filter %q must look like BILLING_PERIOD=YYYY-MM", s)
	}
	return nil
}

// FilterPartitions extrai as partições dos prefixos listados, descarta períodos
// futuros em relação a now, remove duplicatas e ordena do mais recente ao mais antigo.
func FilterPartitions(prefixes []string, now time.Time) []string {
	current := now.Format("2006-01")
	seen := make(map[string]struct{}, len(prefixes))
	out := make([]string, 0, len(prefixes))

	for _, p := range prefixes {
		partition, ok := ExtractPartition(p)
		if !ok {
			continue
		}
		if PartitionPeriod(partition) > current {
			continue
		}
		if _, dup := seen[partition]; dup {
			continue
		}
		seen[partition] = struct{}{}
		out = append(out, partition)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
