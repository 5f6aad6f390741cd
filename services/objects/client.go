package objectsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/taabu/maoni/core"
	"github.com/taabu/maoni/core/rating"
)

// httpService resolves learning objects over the external object service's
// HTTP API. It implements rating.ObjectService.
type httpService struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  core.Logger
}

var _ rating.ObjectService = (*httpService)(nil)

func NewHTTPService(conf *core.Config, logger core.Logger) (*httpService, error) {
	parsed, err := url.Parse(strings.TrimRight(conf.Objects.URL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing object service url")
	}
	timeout := conf.Objects.Timeout
	return &httpService{
		baseURL: parsed,
		apiKey:  conf.Objects.APIKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
			},
		},
		logger: logger,
	}, nil
}

type objectResponse struct {
	CUID    string `json:"cuid"`
	Version int    `json:"version"`
	Name    string `json:"name"`
	Author  struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	} `json:"author"`
	Contributors []string `json:"contributors"`
	Status       string   `json:"status"`
}

func (svc *httpService) GetLearningObject(ctx context.Context, ref rating.ObjectRef) (rating.LearningObject, error) {
	rel := &url.URL{Path: "/learning-objects/" + ref.CUID + "/version/" + strconv.Itoa(ref.Version)}
	endpoint := svc.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return rating.LearningObject{}, errors.Wrap(err, "building object request")
	}
	req.Header.Set("X-API-Key", svc.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := svc.client.Do(req)
	if err != nil {
		return rating.LearningObject{}, errors.Wrap(err, "fetching learning object")
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload objectResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return rating.LearningObject{}, errors.Wrap(err, "decoding object response")
		}
		return rating.LearningObject{
			CUID:    payload.CUID,
			Version: payload.Version,
			Name:    payload.Name,
			Author: rating.UserSnapshot{
				Username: payload.Author.Username,
				Name:     payload.Author.Name,
				Email:    payload.Author.Email,
			},
			Contributors: payload.Contributors,
			Status:       payload.Status,
		}, nil
	case http.StatusNotFound:
		return rating.LearningObject{}, rating.ErrObjectNotFound
	default:
		svc.logger.Warn(fmt.Sprintf("object service: unexpected status %d for %s v%d", resp.StatusCode, ref.CUID, ref.Version))
		return rating.LearningObject{}, errors.Errorf("object service returned %d", resp.StatusCode)
	}
}
