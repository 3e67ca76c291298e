package indexer

import (
	"context"
	"dao-explorer/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	daosAPI      = "daos"
	proposalsAPI = "proposals"
	headAPI      = "head"
)

var (
	// ErrNotFound is returned when the indexer does not know the requested resource.
	ErrNotFound = errors.New("not found on the indexer")
	// ErrUnavailable wraps transport errors and unexpected indexer responses.
	ErrUnavailable = errors.New("indexer unavailable")
)

type Client struct {
	logger     *zap.Logger
	url        string
	network    string
	httpClient *http.Client
	daoCache   *cache.Cache
}

// NewClient creates a client of the indexer at baseURL. DAO records are kept
// for daoCacheTTL since token and cycle parameters rarely change.
func NewClient(logger *zap.Logger, baseURL, network string, timeout, daoCacheTTL time.Duration) *Client {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &Client{
		logger:     logger,
		url:        strings.TrimSuffix(baseURL, "/"),
		network:    network,
		httpClient: &http.Client{Timeout: timeout},
		daoCache:   cache.New(daoCacheTTL, 2*daoCacheTTL),
	}
}

func (c *Client) Network() string {
	return c.network
}

// GetDAO returns the DAO deployed at address together with its governance
// token and cycle parameters.
func (c *Client) GetDAO(ctx context.Context, address string) (model.DAO, error) {
	if cached, ok := c.daoCache.Get(address); ok {
		return cached.(model.DAO), nil
	}

	var dto daoDTO
	if err := c.sendRequest(ctx, daosAPI+"/"+url.PathEscape(address), &dto); err != nil {
		return model.DAO{}, err
	}

	dao, err := dto.toModel()
	if err != nil {
		return model.DAO{}, fmt.Errorf("%w: dao %s: %s", ErrUnavailable, address, err.Error())
	}

	c.daoCache.SetDefault(address, dao)
	return dao, nil
}

// GetProposals returns the raw proposal records of the DAO at address.
func (c *Client) GetProposals(ctx context.Context, address string) ([]ProposalDTO, error) {
	var proposals []ProposalDTO
	if err := c.sendRequest(ctx, daosAPI+"/"+url.PathEscape(address)+"/"+proposalsAPI, &proposals); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched proposals", zap.String("dao", address), zap.Int("count", len(proposals)))
	return proposals, nil
}

// GetCurrentLevel returns the level of the chain head.
func (c *Client) GetCurrentLevel(ctx context.Context) (int64, error) {
	var head headDTO
	if err := c.sendRequest(ctx, headAPI, &head); err != nil {
		return 0, err
	}

	return head.Level, nil
}

func (c *Client) sendRequest(ctx context.Context, apiSuffix string, out interface{}) error {
	endpoint := fmt.Sprintf("%s/%s/%s", c.url, c.network, apiSuffix)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.New("failed to create the request: " + err.Error())
	}
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: failed to connect: %s", ErrUnavailable, err.Error())
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		c.logger.Debug("indexer responded with 404", zap.String("url", endpoint))
		return fmt.Errorf("%s: %w", apiSuffix, ErrNotFound)
	} else if response.StatusCode >= 400 {
		return fmt.Errorf("%w: %s responded with %s", ErrUnavailable, apiSuffix, response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("%w: error reading response: %s", ErrUnavailable, err.Error())
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %s", ErrUnavailable, apiSuffix, err.Error())
	}

	return nil
}

func (d daoDTO) toModel() (model.DAO, error) {
	if d.Token.TokenID.IsNegative() || !d.Token.TokenID.IsInteger() || !d.Token.TokenID.BigInt().IsUint64() {
		return model.DAO{}, fmt.Errorf("invalid token id %s", d.Token.TokenID)
	}

	return model.DAO{
		Address:  d.Address,
		Name:     d.Name,
		Template: model.Template(strings.ToLower(strings.TrimSpace(d.Template))),
		Guardian: d.Guardian,
		Token: model.Token{
			Contract: d.Token.Contract,
			TokenID:  d.Token.TokenID.BigInt().Uint64(),
			Symbol:   d.Token.Symbol,
			Decimals: d.Token.Decimals,
			Supply:   d.Token.Supply,
		},
		CycleStartLevel: d.Cycle.StartLevel,
		CycleLength:     d.Cycle.Length,
	}, nil
}
