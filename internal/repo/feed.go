// Package repo supplies occurrence records from external collaborators: the
// upstream JSON feed and a PostgreSQL mirror. Both sources normalise raw
// records into the typed model; the engine never sees wire shapes.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/agencyops/occurrence-engine/internal/cache"
	"github.com/agencyops/occurrence-engine/internal/models"
	"github.com/agencyops/occurrence-engine/internal/utils"
)

const feedCacheKey = "feed:occurrences"

// occurrenceDTO mirrors the upstream feed's wire shape. Field names follow
// the bank's incident system, hence the Portuguese keys.
type occurrenceDTO struct {
	ID              string `json:"id"`
	Agency          string `json:"agency"`
	Segment         string `json:"segment"`
	Equipment       string `json:"equipment"`
	Vendor          string `json:"vendor"`
	Carrier         string `json:"transportadora"`
	Status          string `json:"status"`
	Severity        string `json:"severity"`
	EquipmentState  string `json:"statusEquipamento"`
	CreatedAt       string `json:"createdAt"`
	ForecastClosure string `json:"dataPrevisaoEncerramento"`
	Description     string `json:"description"`
	ReasonCode      string `json:"motivoOcorrencia"`
	BlockerReason   string `json:"motivoImpedimento"`
	HasImpediment   bool   `json:"possuiImpedimento"`
	Region          string `json:"estado"`
	AgencyType      string `json:"tipoAgencia"`
	SerialNumber    string `json:"serialNumber"`
}

// mapOccurrence converts one wire record into the typed model. Enumeration
// values must parse; a record carrying an unknown status or severity is
// rejected so bad values never fall through silent comparisons later. A
// malformed creation timestamp is NOT a rejection: the record is kept with a
// zero CreatedAt and the raw value preserved for the data-quality tally.
func mapOccurrence(dto occurrenceDTO) (models.Occurrence, error) {
	if strings.TrimSpace(dto.ID) == "" {
		return models.Occurrence{}, fmt.Errorf("occurrence missing id")
	}
	segment, err := models.ParseSegment(dto.Segment)
	if err != nil {
		return models.Occurrence{}, err
	}
	status, err := models.ParseStatus(dto.Status)
	if err != nil {
		return models.Occurrence{}, err
	}
	severity, err := models.ParseSeverity(dto.Severity)
	if err != nil {
		return models.Occurrence{}, err
	}
	state, err := models.ParseEquipmentState(dto.EquipmentState)
	if err != nil {
		return models.Occurrence{}, err
	}
	agencyType, err := models.ParseAgencyType(dto.AgencyType)
	if err != nil {
		return models.Occurrence{}, err
	}

	occ := models.Occurrence{
		ID:             dto.ID,
		Agency:         dto.Agency,
		Segment:        segment,
		Equipment:      dto.Equipment,
		Vendor:         dto.Vendor,
		Carrier:        dto.Carrier,
		Status:         status,
		Severity:       severity,
		EquipmentState: state,
		CreatedAtRaw:   dto.CreatedAt,
		Description:    dto.Description,
		ReasonCode:     dto.ReasonCode,
		BlockerReason:  dto.BlockerReason,
		HasImpediment:  dto.HasImpediment,
		Region:         dto.Region,
		AgencyType:     agencyType,
		SerialNumber:   dto.SerialNumber,
	}
	if t, ok := utils.ParseTimestamp(dto.CreatedAt); ok {
		occ.CreatedAt = t
	}
	if t, ok := utils.ParseTimestamp(dto.ForecastClosure); ok {
		occ.ForecastClosure = t
	}
	return occ, nil
}

// FeedClient pulls the occurrence list from the upstream dashboard feed.
type FeedClient struct {
	baseURL    string
	feedPath   string
	httpClient *http.Client
	cache      cache.Provider
	cacheTTL   time.Duration
}

// NewFeedClient constructs a client targeting the configured feed instance.
// The cache provider may be nil; responses are then fetched fresh every time.
func NewFeedClient(baseURL, feedPath string, timeout time.Duration, cacheProvider cache.Provider, cacheTTL time.Duration) *FeedClient {
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	return &FeedClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		feedPath:   feedPath,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cacheProvider,
		cacheTTL:   cacheTTL,
	}
}

// FetchOccurrences returns the current occurrence population along with the
// number of wire records dropped for invalid enumeration values.
func (c *FeedClient) FetchOccurrences(ctx context.Context) ([]models.Occurrence, int, error) {
	if c == nil {
		return nil, 0, fmt.Errorf("feed client not initialised")
	}
	if c.baseURL == "" {
		return nil, 0, fmt.Errorf("feed base URL not configured")
	}

	body, err := c.feedBody(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("occurrence feed request failed: %w", err)
	}

	var response struct {
		Occurrences []occurrenceDTO `json:"occurrences"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, 0, fmt.Errorf("decode occurrence feed: %w", err)
	}

	occurrences := make([]models.Occurrence, 0, len(response.Occurrences))
	rejected := 0
	for _, dto := range response.Occurrences {
		occ, err := mapOccurrence(dto)
		if err != nil {
			rejected++
			continue
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, rejected, nil
}

func (c *FeedClient) feedBody(ctx context.Context) ([]byte, error) {
	if cached, err := c.cache.Get(ctx, feedCacheKey); err == nil {
		return cached, nil
	}

	endpoint := c.resolvePath(c.feedPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed response: %w", err)
	}
	if c.cacheTTL > 0 {
		_ = c.cache.Set(ctx, feedCacheKey, buf, c.cacheTTL)
	}
	return buf, nil
}

func (c *FeedClient) resolvePath(p string) string {
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}
