package counterexample

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/halmos-report/internal/types"
	"github.com/codalotl/halmos-report/internal/value"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		bucket Bucket
		key    string
	}{
		{name: "p_amount", bucket: BucketParameters, key: "amount"},
		{name: "p_maker", bucket: BucketParameters, key: "maker"},
		{name: "block.timestamp", bucket: BucketState, key: "block.timestamp"},
		{name: "block.number", bucket: BucketState, key: "block.number"},
		{name: "maker.balance", bucket: BucketParameters, key: "maker.balance"},
		{name: "taker.margin", bucket: BucketParameters, key: "taker.margin"},
		{name: "liquidatorFee", bucket: BucketState, key: "liquidatorFee"},
		{name: "creator", bucket: BucketState, key: "creator"},
		{name: "makerCount", bucket: BucketState, key: "makerCount"},
		{name: "randomFlag", bucket: BucketOther, key: "randomFlag"},
		{name: "selector", bucket: BucketOther, key: "selector"},
	}
	for _, tc := range cases {
		bucket, key := Classify(tc.name)
		require.Equal(t, tc.bucket, bucket, tc.name)
		require.Equal(t, tc.key, key, tc.name)
	}
}

func tv(name, tag string, raw int64) types.TypedValue {
	return types.TypedValue{
		VariableName: name,
		SolidityType: tag,
		Value:        types.NewValue(big.NewInt(raw)),
	}
}

func TestPartitionSortsEachBucket(t *testing.T) {
	t.Parallel()

	m := types.Model{
		IsValid: true,
		Model: map[string]types.TypedValue{
			"p_zeta_uint256_00":  tv("p_zeta", "uint256", 3),
			"p_amount_uint256_1": tv("p_amount", "uint256", 7),
			"block_timestamp":    tv("block.timestamp", "uint256", 1700000000),
			"halmos_maker_bal":   tv("maker.balance", "int256", 5),
			"liq_fee":            tv("liquidatorFee", "uint256", 9),
			"flag":               tv("randomFlag", "bool", 1),
			"sel":                tv("selector", "bytes4", 0xbb4fc585),
		},
	}

	got, err := Partition(m, value.New(value.BuiltinSelectors()))
	require.NoError(t, err)

	want := Partitioned{
		BucketParameters: {
			{Key: "amount", Value: "7"},
			{Key: "maker.balance", Value: "5"},
			{Key: "zeta", Value: "3"},
		},
		BucketState: {
			{Key: "block.timestamp", Value: "1700000000"},
			{Key: "liquidatorFee", Value: "9"},
		},
		BucketOther: {
			{Key: "randomFlag", Value: "true"},
			{Key: "selector", Value: "0xbb4fc585 (openMakerPosition)"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Partition mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitionEmptyModel(t *testing.T) {
	t.Parallel()

	got, err := Partition(types.Model{IsValid: true}, value.New(value.BuiltinSelectors()))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestPartitionPropagatesDecodeError(t *testing.T) {
	t.Parallel()

	m := types.Model{Model: map[string]types.TypedValue{"x": tv("p_x", "intfoo", 1)}}
	_, err := Partition(m, value.New(value.BuiltinSelectors()))
	var decodeErr *value.DecodeError
	require.True(t, errors.As(err, &decodeErr))
}
