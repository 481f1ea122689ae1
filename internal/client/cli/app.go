package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/R3yz0n/beyond-pad/internal/client/config"
	"github.com/R3yz0n/beyond-pad/internal/client/models"
	"github.com/R3yz0n/beyond-pad/internal/client/services"
	"github.com/R3yz0n/beyond-pad/internal/logging"
	"github.com/R3yz0n/beyond-pad/internal/registry"
	"github.com/R3yz0n/beyond-pad/internal/storage"
	"github.com/R3yz0n/beyond-pad/internal/wallet"
)

// noteService is the pipeline surface the CLI commands consume. The real
// services.NotesService satisfies it; tests can provide a stub.
type noteService interface {
	Save(ctx context.Context, content string, opts services.SaveOptions) (*models.StoredNote, error)
	Load(ctx context.Context) (*services.LoadResult, error)
	Confirm(ctx context.Context, note *models.StoredNote) (bool, error)
	List() []models.StoredNote
	Get(cid string) (models.StoredNote, bool)
}

type App struct {
	config *config.Config
	store  storage.Client
	relay  *registry.Relay
	reg    registry.Client
	log    logging.Logger

	// set by Connect, cleared by Disconnect
	session *wallet.Session
	notes   noteService

	reader *bufio.Reader
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	store, err := newStorageClient(cfg, log)
	if err != nil {
		return nil, err
	}

	contract, err := wallet.ParseAddress(cfg.RegistryAddress)
	if err != nil {
		return nil, fmt.Errorf("registry address %q: %w", cfg.RegistryAddress, err)
	}

	caller, err := ethclient.Dial(cfg.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", cfg.RPCEndpoint, err)
	}

	relay := registry.NewRelay(cfg.RelayEndpoint, cfg.RelayAPIKey, cfg.ChainID, log)
	reg := registry.NewContractClient(contract, relay, caller, log)

	return &App{
		config: cfg,
		store:  store,
		relay:  relay,
		reg:    reg,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func newStorageClient(cfg *config.Config, log logging.Logger) (storage.Client, error) {
	switch cfg.StorageBackend {
	case config.BackendHTTP:
		return storage.NewHTTPClient(cfg.StorageAPIURL, cfg.StorageGatewayURL, cfg.StorageToken, cfg.FetchTimeout, log), nil
	case config.BackendS3:
		c, err := storage.NewS3Client(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.FetchTimeout, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (a *App) isConnected() bool {
	return a.session != nil && a.session.Connected()
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

// withSpinner runs fn with a terminal spinner shown next to message.
// The spinner writes to stderr so command output stays clean.
func withSpinner(message string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()
	defer s.Stop()
	return fn()
}
