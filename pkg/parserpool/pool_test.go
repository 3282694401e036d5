package parserpool_test

import (
	"sync"
	"testing"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/mpdb/pkg/parserpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	pool := parserpool.NewPool(2)
	defer pool.Close()

	for _, code := range []nomcode.Code{nomcode.Bacterial, nomcode.Botanical} {
		res, err := pool.Parse("Vibrio cholerae Pacini 1854", code)
		require.NoError(t, err)
		assert.True(t, res.Parsed)
		assert.Equal(t, "Vibrio cholerae", res.Canonical.Simple)
	}

	_, err := pool.Parse("Vibrio", nomcode.Zoological)
	assert.Error(t, err)
}

func TestCanonical(t *testing.T) {
	pool := parserpool.NewPool(0)
	defer pool.Close()

	tests := []struct {
		name, canonical string
		ok              bool
	}{
		{"Vibrio", "Vibrio", true},
		{"Vibrio Pacini 1854", "Vibrio", true},
		{"  Bacillus  subtilis ", "Bacillus subtilis", true},
		{"", "", false},
	}

	for _, tt := range tests {
		res, ok := pool.Canonical(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.canonical, res, tt.name)
	}
}

func TestConcurrentCanonical(t *testing.T) {
	pool := parserpool.NewPool(4)
	defer pool.Close()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, ok := pool.Canonical("Escherichia coli")
			assert.True(t, ok)
			assert.Equal(t, "Escherichia coli", res)
		}()
	}
	wg.Wait()
}
