package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/swarm/internal/src"
)

func TestCodeString(t *testing.T) {
	assert.Equal(t, "domain-spawn-without-timestamp", DomainSpawnWithoutTimestamp.String())
	assert.Equal(t, "empty-spawn-body", EmptySpawnBody.String())
	assert.Equal(t, "contract", Contract.String())
	assert.Equal(t, "Code(99)", Code(99).String())
}

func TestDiagnosticFormat(t *testing.T) {
	d := Cautionf(src.NewPos("a.sw", 3, 2), BoolTimestamp, "spawn timestamp %s is a boolean", "flag")
	assert.Equal(t, "a.sw:3:2: spawn timestamp flag is a boolean", d.Error())
	assert.Equal(t, "a.sw:3:2: caution: spawn timestamp flag is a boolean [bool-timestamp]", d.String())
}

func TestListFilters(t *testing.T) {
	var l List
	h := l.Handler()
	h(Errorf(src.NewPos("a.sw", 5, 1), Type, "second"))
	h(Cautionf(src.NewPos("a.sw", 1, 1), EmptySpawnBody, "first"))
	h(Errorf(src.NewPos("a.sw", 2, 1), TimestampNotIntegral, "middle"))

	require.Equal(t, 3, l.Len())
	assert.Len(t, l.Errors(), 2)
	assert.Len(t, l.Cautions(), 1)
	assert.Len(t, l.WithCode(EmptySpawnBody), 1)
	assert.True(t, l.HasErrors())

	l.Sort()
	assert.Equal(t, "first", l.All()[0].Msg)
	assert.Equal(t, "middle", l.All()[1].Msg)

	err := l.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "middle")
}

func TestPromoteCautions(t *testing.T) {
	var l List
	l.Add(Cautionf(src.Pos{}, UnusedResult, "unused"))
	assert.False(t, l.HasErrors())
	assert.NoError(t, l.Err())

	l.PromoteCautions()
	assert.True(t, l.HasErrors())
	assert.Equal(t, Error, l.All()[0].Severity)
}

func TestRecoverICE(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		ICE(src.NewPos("a.sw", 7, 3), "conflicting domain flags")
		return nil
	}
	err := run()
	require.Error(t, err)

	var ice *InternalError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, "internal compiler error: a.sw:7:3: conflicting domain flags", err.Error())
	assert.Equal(t, Internal, ice.Diagnostic().Severity)
	assert.Equal(t, Contract, ice.Diagnostic().Code)
}

func TestRecoverRepanicsForeignValues(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		var err error
		defer Recover(&err)
		panic("boom")
	})
}
