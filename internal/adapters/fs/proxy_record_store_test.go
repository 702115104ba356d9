package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

func newTestRecordStore(t *testing.T) (*ProxyRecordStoreAdapter, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".treb")
	return NewProxyRecordStoreAdapter(&config.RuntimeConfig{DataDir: dir}), dir
}

func TestProxyRecordStore_ListEmpty(t *testing.T) {
	store, _ := newTestRecordStore(t)

	records, err := store.List(context.Background(), domain.ProxyRecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProxyRecordStore_SaveAndList(t *testing.T) {
	store, dir := newTestRecordStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	deploy := domain.ProxyRecord{
		Kind:           domain.ProxyRecordDeploy,
		Contract:       "Token",
		File:           "src/Token.sol",
		ChainID:        31337,
		Proxy:          "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		Implementation: "0x00000000000000000000000000000000000000aa",
		TxHash:         "0x01",
		CreatedAt:      now.Add(-time.Minute),
	}
	upgrade := domain.ProxyRecord{
		Kind:           domain.ProxyRecordUpgrade,
		Contract:       "Token",
		ChainID:        31337,
		Proxy:          deploy.Proxy,
		Implementation: "0x00000000000000000000000000000000000000bb",
		TxHash:         "0x02",
		CreatedAt:      now,
	}
	other := domain.ProxyRecord{
		Kind:      domain.ProxyRecordDeploy,
		Contract:  "Vault",
		ChainID:   1,
		TxHash:    "0x03",
		CreatedAt: now.Add(-time.Hour),
	}

	for _, r := range []domain.ProxyRecord{deploy, upgrade, other} {
		require.NoError(t, store.Save(ctx, r))
	}
	assert.FileExists(t, filepath.Join(dir, "proxies.json"))

	tests := []struct {
		name   string
		filter domain.ProxyRecordFilter
		want   []string
	}{
		{name: "all newest first", filter: domain.ProxyRecordFilter{}, want: []string{"0x02", "0x01", "0x03"}},
		{name: "by chain", filter: domain.ProxyRecordFilter{ChainID: 31337}, want: []string{"0x02", "0x01"}},
		{name: "by contract ignoring case", filter: domain.ProxyRecordFilter{Contract: "vault"}, want: []string{"0x03"}},
		{name: "by kind", filter: domain.ProxyRecordFilter{Kind: domain.ProxyRecordUpgrade}, want: []string{"0x02"}},
		{name: "no match", filter: domain.ProxyRecordFilter{ChainID: 10}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.List(ctx, tt.filter)
			require.NoError(t, err)

			hashes := make([]string, len(records))
			for i, r := range records {
				hashes[i] = r.TxHash
			}
			assert.Equal(t, tt.want, hashes)
		})
	}

	records, err := store.List(ctx, domain.ProxyRecordFilter{Kind: domain.ProxyRecordDeploy, ChainID: 31337})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, deploy.CreatedAt.Equal(records[0].CreatedAt))
	records[0].CreatedAt = deploy.CreatedAt
	assert.Equal(t, deploy, records[0])
}

func TestProxyRecordStore_CorruptFile(t *testing.T) {
	store, dir := newTestRecordStore(t)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "proxies.json"), []byte("{not json"), 0644))

	_, err := store.List(context.Background(), domain.ProxyRecordFilter{})
	assert.ErrorContains(t, err, "failed to parse proxy records")

	err = store.Save(context.Background(), domain.ProxyRecord{TxHash: "0x01"})
	assert.Error(t, err)
}
