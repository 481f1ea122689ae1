package registry

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3yz0n/beyond-pad/internal/common"
	"github.com/R3yz0n/beyond-pad/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func newTestRelay(url string) *Relay {
	r := NewRelay(url, "key", 11155111, testLogger())
	r.pollInterval = 5 * time.Millisecond
	return r
}

func TestRelay_SponsoredCall(t *testing.T) {
	var got relayRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/relays/v2/sponsored-call", r.URL.Path)
		require.Equal(t, "key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"taskId": "task-1"})
	}))
	defer srv.Close()

	relay := newTestRelay(srv.URL)
	sub, err := relay.SponsoredCall(context.Background(),
		[]Call{{To: "0xabc", Data: "0x1234"}},
		CallOptions{IsSponsored: true, GasLimit: 300_000})
	require.NoError(t, err)

	assert.Equal(t, "task-1", sub.TaskID)
	assert.Equal(t, "task-1", sub.Ref())
	assert.Equal(t, int64(11155111), got.ChainID)
	require.Len(t, got.Calls, 1)
	assert.Equal(t, "0x1234", got.Calls[0].Data)
	assert.True(t, got.Options.IsSponsored)
	assert.NotEmpty(t, got.RequestID)
}

func TestRelay_SponsoredCall_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestRelay(srv.URL).SponsoredCall(context.Background(), nil, CallOptions{})
	assert.ErrorIs(t, err, common.ErrRateLimited)
}

func TestRelay_SponsoredCall_OtherErrorNotRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestRelay(srv.URL).SponsoredCall(context.Background(), nil, CallOptions{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrRateLimited)
}

func TestRelay_SponsoredCall_SyncTransactionHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"transactionHash": "0xdead"})
	}))
	defer srv.Close()

	sub, err := newTestRelay(srv.URL).SponsoredCall(context.Background(), nil, CallOptions{})
	require.NoError(t, err)
	assert.Equal(t, "0xdead", sub.Ref())
}

func TestRelay_WaitConfirmed_Success(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		st := TaskStatus{TaskState: "ExecPending"}
		if calls >= 3 {
			st = TaskStatus{TaskState: "ExecSuccess", TransactionHash: "0xbeef"}
		}
		json.NewEncoder(w).Encode(taskStatusResponse{Task: st})
	}))
	defer srv.Close()

	tx, ok, err := newTestRelay(srv.URL).WaitConfirmed(context.Background(), "task-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0xbeef", tx)
	assert.Equal(t, 3, calls)
}

func TestRelay_WaitConfirmed_BudgetExhausted(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(taskStatusResponse{Task: TaskStatus{TaskState: "ExecPending"}})
	}))
	defer srv.Close()

	tx, ok, err := newTestRelay(srv.URL).WaitConfirmed(context.Background(), "task-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, tx)
	assert.Equal(t, defaultPollAttempts, calls)
}

func TestRelay_WaitConfirmed_Reverted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(taskStatusResponse{Task: TaskStatus{TaskState: "ExecReverted"}})
	}))
	defer srv.Close()

	_, ok, err := newTestRelay(srv.URL).WaitConfirmed(context.Background(), "task-1")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestRelay_Account(t *testing.T) {
	owner := ethcommon.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	account := "0x000000000000000000000000000000000000bEEF"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// registry-facing lookups use the lower-cased owner form
		require.Equal(t, "/accounts/0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", r.URL.Path)
		json.NewEncoder(w).Encode(accountResponse{AccountAddress: account, Deployed: true})
	}))
	defer srv.Close()

	got, deployed, err := newTestRelay(srv.URL).Account(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, ethcommon.HexToAddress(account), got)
	assert.True(t, deployed)
}
