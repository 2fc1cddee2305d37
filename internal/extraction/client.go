package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"

	httputil "github.com/jmylchreest/brandstream/internal/util/http"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 4 << 20

// Extractor turns an image into a palette.
type Extractor interface {
	Extract(ctx context.Context, p Params) (Palette, error)
}

// Client posts images to the extraction endpoint.
type Client struct {
	endpoint string
	http     *retryablehttp.Client
	logger   hclog.Logger
}

// NewClient creates a client for endpoint, e.g. "http://127.0.0.1:5000/extract-colors".
func NewClient(endpoint string, httpClient *retryablehttp.Client, logger hclog.Logger) *Client {
	if httpClient == nil {
		httpClient = httputil.NewClient(httputil.ClientOptions{Logger: logger})
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		endpoint: endpoint,
		http:     httpClient,
		logger:   logger.Named("extraction"),
	}
}

// Extract sends the image and colour count as a multipart form. A response
// body carrying an error field yields a *ServiceError whatever the status.
// Anything else that is not a colour list is a transport or parse failure.
func (c *Client) Extract(ctx context.Context, p Params) (Palette, error) {
	if p.Image == nil {
		return nil, fmt.Errorf("no image to extract from")
	}

	body, contentType, err := encodeForm(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", httputil.UserAgent())

	c.logger.Debug("requesting extraction", "file", p.Image.Name, "bytes", len(p.Image.Content), "num_colors", p.NumColors)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	palette, err := decodeResponse(data, resp.StatusCode, resp.Status)
	if err != nil {
		c.logger.Warn("extraction failed", "status", resp.StatusCode, "error", err)
		return nil, err
	}

	c.logger.Debug("extraction complete", "colors", len(palette))
	return palette, nil
}

func encodeForm(p Params) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, formFilename(p.Image.Name)))
	h.Set("Content-Type", p.Image.MIMEType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(p.Image.Content); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("num_colors", strconv.Itoa(p.NumColors)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// formFilename keeps the part's filename non-empty; the service rejects
// uploads without one.
func formFilename(name string) string {
	name = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(name)
	if name == "" {
		return "upload"
	}
	return name
}

func decodeResponse(data []byte, status int, statusText string) (Palette, error) {
	var r response
	if err := json.Unmarshal(data, &r); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("HTTP %d: %s", status, statusText)
		}
		return nil, fmt.Errorf("invalid response: %w", err)
	}

	if r.Error != nil {
		return nil, &ServiceError{Message: *r.Error, StatusCode: status}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", status, statusText)
	}
	if r.Colors == nil {
		return nil, fmt.Errorf("invalid response: missing colors")
	}

	palette := make(Palette, 0, len(r.Colors))
	for i, w := range r.Colors {
		c, err := w.normalise()
		if err != nil {
			return nil, fmt.Errorf("invalid response: colour %d: %w", i, err)
		}
		palette = append(palette, c)
	}
	return palette, nil
}
