package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/R3yz0n/beyond-pad/internal/common"
	"github.com/R3yz0n/beyond-pad/internal/logging"
	"github.com/R3yz0n/beyond-pad/internal/wallet"
)

// Confirmation polling budget. The relay is asynchronous; when the
// budget runs out with the task still pending, WaitConfirmed reports
// confirmed=false and the caller treats the submission as in flight.
const (
	defaultPollAttempts = 10
	defaultPollInterval = 3 * time.Second
)

// Call is one contract invocation in a relay batch.
type Call struct {
	To        string `json:"to"`
	Data      string `json:"data"`
	Value     string `json:"value"`
	Operation int    `json:"operation"`
}

// CallOptions carries batch-level relay options.
type CallOptions struct {
	IsSponsored bool   `json:"isSponsored"`
	GasLimit    uint64 `json:"gasLimit,omitempty"`
}

type relayRequest struct {
	ChainID   int64       `json:"chainId"`
	Calls     []Call      `json:"calls"`
	Options   CallOptions `json:"options"`
	RequestID string      `json:"requestId"`
}

// Submission is what the relay returns: a task handle when it executes
// asynchronously, or a settled transaction hash when it does not.
type Submission struct {
	TaskID          string `json:"taskId"`
	TransactionHash string `json:"transactionHash"`
}

// Ref returns the best available chain reference for the submission.
func (s Submission) Ref() string {
	if s.TransactionHash != "" {
		return s.TransactionHash
	}
	return s.TaskID
}

// TaskStatus mirrors the relay's task-status document.
type TaskStatus struct {
	TaskState       string `json:"taskState"`
	TransactionHash string `json:"transactionHash"`
}

type taskStatusResponse struct {
	Task TaskStatus `json:"task"`
}

type accountResponse struct {
	AccountAddress string `json:"accountAddress"`
	Deployed       bool   `json:"deployed"`
}

// Relay submits gas-sponsored transactions through the relay HTTP API
// and resolves smart-account addresses for owner keys.
type Relay struct {
	endpoint string
	apiKey   string
	chainID  int64
	httpc    *http.Client
	log      logging.Logger

	pollAttempts int
	pollInterval time.Duration
}

func NewRelay(endpoint, apiKey string, chainID int64, log logging.Logger) *Relay {
	return &Relay{
		endpoint:     endpoint,
		apiKey:       apiKey,
		chainID:      chainID,
		httpc:        &http.Client{},
		log:          log,
		pollAttempts: defaultPollAttempts,
		pollInterval: defaultPollInterval,
	}
}

// SponsoredCall submits a batch for sponsored execution. A 429 from the
// relay surfaces as ErrRateLimited so the caller's retry policy can
// classify it; every other failure is terminal here.
func (r *Relay) SponsoredCall(ctx context.Context, calls []Call, opts CallOptions) (Submission, error) {
	reqBody := relayRequest{
		ChainID:   r.chainID,
		Calls:     calls,
		Options:   opts,
		RequestID: uuid.NewString(),
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return Submission{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/relays/v2/sponsored-call", bytes.NewReader(body))
	if err != nil {
		return Submission{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", r.apiKey)

	resp, err := r.httpc.Do(req)
	if err != nil {
		return Submission{}, fmt.Errorf("relay submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Submission{}, fmt.Errorf("%w: relay returned 429", common.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Submission{}, fmt.Errorf("relay returned %s", resp.Status)
	}

	var sub Submission
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return Submission{}, fmt.Errorf("decoding relay response: %w", err)
	}
	if sub.TaskID == "" && sub.TransactionHash == "" {
		return Submission{}, fmt.Errorf("relay returned no task handle")
	}

	r.log.Debug(ctx, "relay call submitted", "task", sub.TaskID, "requestId", reqBody.RequestID)
	return sub, nil
}

// TaskStatus fetches the current state of a relay task.
func (r *Relay) Status(ctx context.Context, taskID string) (TaskStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"/tasks/status/"+taskID, nil)
	if err != nil {
		return TaskStatus{}, err
	}
	req.Header.Set("X-Api-Key", r.apiKey)

	resp, err := r.httpc.Do(req)
	if err != nil {
		return TaskStatus{}, fmt.Errorf("relay status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return TaskStatus{}, fmt.Errorf("relay status returned %s", resp.Status)
	}

	var tr taskStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return TaskStatus{}, fmt.Errorf("decoding relay status: %w", err)
	}
	return tr.Task, nil
}

// WaitConfirmed polls a task until it settles or the attempt budget is
// spent. It returns (txHash, true, nil) on success, an error when the
// task reverted or was cancelled, and ("", false, nil) when the task is
// still pending after the budget — the caller infers "in flight".
func (r *Relay) WaitConfirmed(ctx context.Context, taskID string) (string, bool, error) {
	for attempt := 0; attempt < r.pollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(r.pollInterval):
			case <-ctx.Done():
				return "", false, ctx.Err()
			}
		}

		st, err := r.Status(ctx, taskID)
		if err != nil {
			return "", false, err
		}

		switch st.TaskState {
		case "ExecSuccess":
			return st.TransactionHash, true, nil
		case "ExecReverted", "Cancelled":
			return "", false, fmt.Errorf("relay task %s: %s", taskID, st.TaskState)
		}
	}
	return "", false, nil
}

// Account resolves the smart-contract-wallet address (and whether it is
// deployed) for an owner signing key. Notes are registered under this
// address, not under the raw signing address.
func (r *Relay) Account(ctx context.Context, owner ethcommon.Address) (ethcommon.Address, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"/accounts/"+wallet.Lower(owner), nil)
	if err != nil {
		return ethcommon.Address{}, false, err
	}
	req.Header.Set("X-Api-Key", r.apiKey)

	resp, err := r.httpc.Do(req)
	if err != nil {
		return ethcommon.Address{}, false, fmt.Errorf("resolving account: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ethcommon.Address{}, false, fmt.Errorf("account lookup returned %s", resp.Status)
	}

	var ar accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return ethcommon.Address{}, false, fmt.Errorf("decoding account response: %w", err)
	}
	if !ethcommon.IsHexAddress(ar.AccountAddress) {
		return ethcommon.Address{}, false, fmt.Errorf("account lookup returned bad address %q", ar.AccountAddress)
	}
	return ethcommon.HexToAddress(ar.AccountAddress), ar.Deployed, nil
}

// encodeCallData renders contract call data in the 0x-prefixed hex form
// the relay expects.
func encodeCallData(data []byte) string {
	return hexutil.Encode(data)
}
