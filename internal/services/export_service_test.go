package services

import (
	"bytes"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.referrals.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	alice, err := env.accounts.Signup(ctx, "555", "pw")
	require.NoError(t, err)
	bob, err := env.accounts.Signup(ctx, "556", "pw")
	require.NoError(t, err)

	_, err = env.referrals.CreateReferral(ctx, alice.Token, "777", "Buy")
	require.NoError(t, err)
	_, err = env.referrals.CreateReferral(ctx, bob.Token, "888", "Sell")
	require.NoError(t, err)
	_, err = env.referrals.MarkPurchased(ctx, "777")
	require.NoError(t, err)

	data, err := env.exports.Export(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{UsersSheet, ReferralsSheet}, f.GetSheetList())

	users, err := f.GetRows(UsersSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID", "Phone", "Referral Code"},
		{strconv.Itoa(int(alice.ID)), "555", alice.ReferralCode},
		{strconv.Itoa(int(bob.ID)), "556", bob.ReferralCode},
	}, users)

	referrals, err := f.GetRows(ReferralsSheet)
	require.NoError(t, err)
	require.Len(t, referrals, 3)
	assert.Equal(t, []string{"ID", "Referrer ID", "Referred Phone", "Purchased", "Type", "Timestamp"}, referrals[0])
	assert.Equal(t, []string{"777", "Yes", "Buy", "2024-05-06 07:08:09"}, referrals[1][2:])
	assert.Equal(t, strconv.Itoa(int(alice.ID)), referrals[1][1])
	assert.Equal(t, []string{"888", "No", "Sell", "2024-05-06 07:08:09"}, referrals[2][2:])
}

func TestExportEmpty(t *testing.T) {
	env := newTestEnv(t)

	data, err := env.exports.Export(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ReferralsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
