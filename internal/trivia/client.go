package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrInsufficientCategories = errors.New("not enough unused categories")
var ErrNoCategoriesAvailable = errors.New("no categories available")

// StatusError is returned when the trivia API answers with a non-success
// status. Transport failures surface as wrapped *url.Error instead.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("trivia API returned status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FetchAllCategories lists the categories the API offers, id and title only.
func (c *Client) FetchAllCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, "/categories?count=100", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// FetchCategoryByID fetches one category with its full clue list.
func (c *Client) FetchCategoryByID(ctx context.Context, id int) (Category, error) {
	var category Category
	if err := c.get(ctx, fmt.Sprintf("/category?id=%d", id), &category); err != nil {
		return Category{}, err
	}
	return category, nil
}

// SelectRandomCategories picks count unused categories uniformly at random and
// fetches their details concurrently. The returned order matches the shuffled
// selection, not fetch-completion order.
func (c *Client) SelectRandomCategories(ctx context.Context, count int, usedIDs map[int]bool) ([]Category, error) {
	all, err := c.FetchAllCategories(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]Category, 0, len(all))
	for _, cat := range all {
		if !usedIDs[cat.ID] {
			available = append(available, cat)
		}
	}

	if len(available) < count {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientCategories, count, len(available))
	}

	rand.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	selected := available[:count]

	detailed := make([]Category, count)
	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range selected {
		i, cat := i, cat
		g.Go(func() error {
			full, err := c.FetchCategoryByID(gctx, cat.ID)
			if err != nil {
				return err
			}
			detailed[i] = full
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detailed, nil
}

// SelectFinalJeopardyCategory picks one unused category at random and marks its
// hardest clue as the Final Jeopardy clue.
func (c *Client) SelectFinalJeopardyCategory(ctx context.Context, usedIDs map[int]bool) (Category, error) {
	all, err := c.FetchAllCategories(ctx)
	if err != nil {
		return Category{}, err
	}

	available := make([]Category, 0, len(all))
	for _, cat := range all {
		if !usedIDs[cat.ID] {
			available = append(available, cat)
		}
	}
	if len(available) == 0 {
		return Category{}, ErrNoCategoriesAvailable
	}

	pick := available[rand.Intn(len(available))]
	full, err := c.FetchCategoryByID(ctx, pick.ID)
	if err != nil {
		return Category{}, err
	}

	full.FinalClue = HardestClue(full.Clues)
	return full, nil
}
