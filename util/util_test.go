package util

// Copyright (c) 2025 Colin McRae

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopy(t *testing.T) {
	input := []int64{3, -1, 0, 1 << 62}
	x := CopyInt64ToBigInt(input)
	y := CopyBigInt(x)
	x[0].SetInt64(7)
	output, err := CopyBigIntToInt64(y)
	require.NoError(t, err)
	require.Equal(t, input, output)

	tooLarge := new(big.Int).Lsh(big.NewInt(1), 63)
	_, err = CopyBigIntToInt64([]*big.Int{big.NewInt(1), tooLarge})
	require.Error(t, err)
}

func TestMultiplyIntInt(t *testing.T) {
	// [1 2 3] [1 0]   [ 4  5]
	// [4 5 6] [0 1] = [10 11]
	//         [1 1]
	x := CopyInt64ToBigInt([]int64{1, 2, 3, 4, 5, 6})
	y := CopyInt64ToBigInt([]int64{1, 0, 0, 1, 1, 1})
	xy, err := MultiplyIntInt(x, y, 3)
	require.NoError(t, err)
	actual, err := CopyBigIntToInt64(xy)
	require.NoError(t, err)
	require.Equal(t, []int64{4, 5, 10, 11}, actual)

	_, err = MultiplyIntInt(x, y, 4)
	require.Error(t, err)
	_, err = MultiplyIntInt(x, y, 0)
	require.Error(t, err)
}

func TestJSON(t *testing.T) {
	type record struct {
		Name  string   `json:"name"`
		Value *big.Int `json:"value"`
	}
	data, err := MarshalJSON(record{Name: "<a & b>", Value: new(big.Int).Lsh(big.NewInt(1), 80)})
	require.NoError(t, err)
	require.Equal(t, `{"name":"<a & b>","value":1208925819614629174706176}`, string(data))
	var decoded record
	require.NoError(t, UnmarshalJSON(data, &decoded))
	require.Equal(t, "<a & b>", decoded.Name)
	require.Equal(t, 0, decoded.Value.Cmp(new(big.Int).Lsh(big.NewInt(1), 80)))

	indented, err := MarshalJSONIndent(map[string]int{"x": 1}, "  ")
	require.NoError(t, err)
	require.Equal(t, "{\n  \"x\": 1\n}", string(indented))
}

func TestLogLevel(t *testing.T) {
	saved := GlobalLogLevel
	defer func() { GlobalLogLevel = saved }()

	GlobalLogLevel = LogLevelError
	require.False(t, IsLogLevelDebug())
	GlobalLogLevel |= LogLevelDebug
	require.True(t, IsLogLevelDebug())
	Debugf("util", "debug %d", 1)
	Errorf("util", "error %d", 1)
	Noticef("util", "suppressed notice %d", 1)
	GlobalLogLevel |= LogLevelNotice
	Noticef("util", "notice %d", 1)
	require.Panics(t, func() { Panicf("util", "broken invariant %d", 2) })
}
