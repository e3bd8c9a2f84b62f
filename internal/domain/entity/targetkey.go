package entity

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const targetDataset = "cid-cur2/data"

// TargetFileName é o nome determinístico do parquet derivado da chave de origem:
// os últimos 16 caracteres hexadecimais do MD5 da chave.
func TargetFileName(sourceKey string) string {
	sum := md5.Sum([]byte(sourceKey))
	h := hex.EncodeToString(sum[:])
	return h[len(h)-16:] + ".parquet"
}

// TargetPartitionPrefix é o diretório de destino de uma partição, com barra final.
func TargetPartitionPrefix(tier ReportTier, accountID, partition string) string {
	return fmt.Sprintf("%s/ID=%s/%s/%s/", tier, accountID, targetDataset, partition)
}

// TargetKey calcula a chave de destino para um arquivo de origem.
func TargetKey(tier ReportTier, accountID, sourceKey string) (string, error) {
	partition, ok := ExtractPartition(sourceKey)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoPartition, sourceKey)
	}
	return TargetPartitionPrefix(tier, accountID, partition) + TargetFileName(sourceKey), nil
}

// IsParquetKey indica se a chave já aponta para um arquivo parquet.
func IsParquetKey(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), ".parquet")
}
