package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultMarketplaceURL is the Visual Studio Marketplace gallery.
	DefaultMarketplaceURL = "https://marketplace.visualstudio.com"

	defaultHTTPTimeout = 60 * time.Second
	galleryAPIVersion  = "7.2-preview.1"
	userAgent          = "vsix-cli"

	vsixAssetType    = "Microsoft.VisualStudio.Services.VSIXPackage"
	detailsAssetType = "Microsoft.VisualStudio.Services.Content.Details"
	preReleaseKey    = "Microsoft.VisualStudio.Code.PreRelease"
	codeTarget       = "Microsoft.VisualStudio.Code"

	maxDetailsSize = 4 << 20
)

// Gallery query filter types.
const (
	filterExtensionName = 7
	filterTarget        = 8
	filterSearchText    = 10
)

// Gallery query flags.
const (
	flagIncludeVersions          = 0x1
	flagIncludeFiles             = 0x2
	flagIncludeVersionProperties = 0x10
	flagIncludeAssetURI          = 0x80
	flagIncludeStatistics        = 0x100
	flagIncludeLatestVersionOnly = 0x200

	searchFlags  = flagIncludeFiles | flagIncludeVersionProperties | flagIncludeAssetURI | flagIncludeStatistics | flagIncludeLatestVersionOnly
	resolveFlags = flagIncludeVersions | flagIncludeFiles | flagIncludeVersionProperties | flagIncludeAssetURI
)

// Gateway is the part of the marketplace the install engine depends on.
type Gateway interface {
	// ResolveAssets lists every downloadable variant of an extension.
	ResolveAssets(ctx context.Context, extensionID string) ([]AssetDescriptor, error)
	// Fetch opens the raw byte stream of an asset. The caller closes Body.
	Fetch(ctx context.Context, asset AssetDescriptor) (*Payload, error)
}

// Marketplace is the full marketplace surface used by the CLI.
type Marketplace interface {
	Gateway
	Search(ctx context.Context, query string) (*SearchResult, error)
	Extension(ctx context.Context, extensionID string) (*Extension, error)
	Details(ctx context.Context, extensionID string) (string, error)
}

// Payload is an undecoded asset response.
type Payload struct {
	Body            io.ReadCloser
	ContentEncoding string // as declared by the server, e.g. "gzip"
	ContentLength   int64  // -1 if unknown
}

// MarketplaceClient talks to a Visual Studio Marketplace compatible gallery.
type MarketplaceClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewMarketplaceClient creates a client for the gallery at baseURL.
// An empty baseURL selects DefaultMarketplaceURL.
func NewMarketplaceClient(baseURL string, timeout time.Duration) *MarketplaceClient {
	if baseURL == "" {
		baseURL = DefaultMarketplaceURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	// The stager decodes payloads itself so it can see what the server declared.
	transport.DisableCompression = true
	// Downloads can legitimately take longer than the timeout, so it only
	// bounds the wait for response headers here; queries get a full deadline.
	transport.ResponseHeaderTimeout = timeout

	return &MarketplaceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Transport: transport},
	}
}

// BaseURL returns the gallery base URL.
func (c *MarketplaceClient) BaseURL() string { return c.baseURL }

// --- Wire types ---

type galleryQuery struct {
	Filters    []galleryFilter `json:"filters"`
	AssetTypes []string        `json:"assetTypes"`
	Flags      int             `json:"flags"`
}

type galleryFilter struct {
	Criteria   []galleryCriterion `json:"criteria"`
	PageNumber int                `json:"pageNumber,omitempty"`
	PageSize   int                `json:"pageSize,omitempty"`
}

type galleryCriterion struct {
	FilterType int    `json:"filterType"`
	Value      string `json:"value"`
}

type galleryResponse struct {
	Results []struct {
		Extensions     []galleryExtension `json:"extensions"`
		ResultMetadata []struct {
			MetadataType  string `json:"metadataType"`
			MetadataItems []struct {
				Name  string `json:"name"`
				Count int    `json:"count"`
			} `json:"metadataItems"`
		} `json:"resultMetadata"`
	} `json:"results"`
}

type galleryExtension struct {
	ExtensionName    string `json:"extensionName"`
	DisplayName      string `json:"displayName"`
	ShortDescription string `json:"shortDescription"`
	LastUpdated      string `json:"lastUpdated"`
	Publisher        struct {
		PublisherName string `json:"publisherName"`
	} `json:"publisher"`
	Versions   []galleryVersion `json:"versions"`
	Statistics []struct {
		StatisticName string  `json:"statisticName"`
		Value         float64 `json:"value"`
	} `json:"statistics"`
}

type galleryVersion struct {
	Version        string `json:"version"`
	TargetPlatform string `json:"targetPlatform"`
	AssetURI       string `json:"assetUri"`
	Files          []struct {
		AssetType string `json:"assetType"`
		Source    string `json:"source"`
	} `json:"files"`
	Properties []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"properties"`
}

func (v galleryVersion) file(assetType string) string {
	for _, f := range v.Files {
		if f.AssetType == assetType {
			return f.Source
		}
	}
	return ""
}

func (v galleryVersion) isPreRelease() bool {
	for _, p := range v.Properties {
		if p.Key == preReleaseKey {
			return strings.EqualFold(p.Value, "true")
		}
	}
	return false
}

func (e galleryExtension) id() string {
	return e.Publisher.PublisherName + "." + e.ExtensionName
}

func (e galleryExtension) toExtension() Extension {
	ext := Extension{
		ID:          e.id(),
		Name:        e.ExtensionName,
		Publisher:   e.Publisher.PublisherName,
		DisplayName: e.DisplayName,
		Description: e.ShortDescription,
		Version:     "latest",
	}
	if ext.DisplayName == "" {
		ext.DisplayName = e.ExtensionName
	}
	if len(e.Versions) > 0 && e.Versions[0].Version != "" {
		ext.Version = e.Versions[0].Version
	}
	for _, s := range e.Statistics {
		switch s.StatisticName {
		case "install":
			ext.Installs = uint64(s.Value)
		case "averagerating":
			ext.Rating = s.Value
		}
	}
	if t, err := time.Parse(time.RFC3339, e.LastUpdated); err == nil {
		ext.UpdatedAt = t
	}
	return ext
}

// --- Queries ---

func (c *MarketplaceClient) query(ctx context.Context, flags int, criteria ...galleryCriterion) ([]galleryExtension, int, error) {
	body, err := json.Marshal(galleryQuery{
		Filters: []galleryFilter{{
			Criteria: append([]galleryCriterion{{FilterType: filterTarget, Value: codeTarget}}, criteria...),
			PageSize: 50,
		}},
		AssetTypes: []string{},
		Flags:      flags,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("encoding gallery query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/_apis/public/gallery/extensionquery"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("creating gallery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json;api-version="+galleryAPIVersion)
	req.Header.Set("User-Agent", userAgent)

	slog.Debug("gallery query", "url", endpoint, "flags", flags)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, newError(ErrGatewayUnavailable, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, &Error{Kind: ErrGatewayUnavailable, StatusCode: resp.StatusCode}
	}

	var parsed galleryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, 0, newError(ErrGatewayUnavailable, "", fmt.Errorf("decoding gallery response: %w", err))
	}

	var exts []galleryExtension
	total := 0
	for _, r := range parsed.Results {
		exts = append(exts, r.Extensions...)
		for _, md := range r.ResultMetadata {
			if md.MetadataType != "ResultCount" {
				continue
			}
			for _, item := range md.MetadataItems {
				if item.Name == "TotalCount" {
					total = item.Count
				}
			}
		}
	}
	if total < len(exts) {
		total = len(exts)
	}
	return exts, total, nil
}

// Search runs a free-text marketplace search.
func (c *MarketplaceClient) Search(ctx context.Context, query string) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is empty")
	}

	exts, total, err := c.query(ctx, searchFlags, galleryCriterion{FilterType: filterSearchText, Value: query})
	if err != nil {
		return nil, err
	}

	result := &SearchResult{TotalCount: total, Extensions: make([]Extension, 0, len(exts))}
	for _, e := range exts {
		if e.ExtensionName == "" || e.Publisher.PublisherName == "" {
			continue
		}
		result.Extensions = append(result.Extensions, e.toExtension())
	}
	return result, nil
}

func (c *MarketplaceClient) lookup(ctx context.Context, extensionID string, flags int) (*galleryExtension, error) {
	if _, _, err := ParseExtensionID(extensionID); err != nil {
		return nil, err
	}

	exts, _, err := c.query(ctx, flags, galleryCriterion{FilterType: filterExtensionName, Value: extensionID})
	if err != nil {
		return nil, withContext(err, extensionID, "", "")
	}
	for i := range exts {
		if strings.EqualFold(exts[i].id(), extensionID) {
			return &exts[i], nil
		}
	}
	return nil, newError(ErrExtensionNotFound, extensionID, nil)
}

// Extension looks up a single extension by exact id.
func (c *MarketplaceClient) Extension(ctx context.Context, extensionID string) (*Extension, error) {
	e, err := c.lookup(ctx, extensionID, searchFlags)
	if err != nil {
		return nil, err
	}
	ext := e.toExtension()
	return &ext, nil
}

// ResolveAssets lists the stable versions of an extension, one descriptor per
// version and target platform. Pre-release versions are only returned when
// the extension has nothing else.
func (c *MarketplaceClient) ResolveAssets(ctx context.Context, extensionID string) ([]AssetDescriptor, error) {
	e, err := c.lookup(ctx, extensionID, resolveFlags)
	if err != nil {
		return nil, err
	}

	var stable, pre []AssetDescriptor
	for _, v := range e.Versions {
		if !validVersion(v.Version) {
			slog.Debug("skipping asset", "extension", extensionID, "version", v.Version, "error", "invalid version")
			continue
		}
		platform, err := ParsePlatform(v.TargetPlatform)
		if err != nil {
			slog.Debug("skipping asset", "extension", extensionID, "version", v.Version, "error", err)
			continue
		}

		a := AssetDescriptor{
			ExtensionID: e.id(),
			Version:     v.Version,
			Platform:    platform,
		}
		switch {
		case v.file(vsixAssetType) != "":
			a.DownloadURL = v.file(vsixAssetType)
		case v.AssetURI != "":
			a.DownloadURL = strings.TrimRight(v.AssetURI, "/") + "/" + vsixAssetType
		default:
			a.DownloadURL = c.packageURL(e.Publisher.PublisherName, e.ExtensionName, v.Version, platform)
			a.ContentEncoding = "gzip"
		}

		if v.isPreRelease() {
			pre = append(pre, a)
		} else {
			stable = append(stable, a)
		}
	}

	if len(stable) == 0 {
		stable = pre
	}
	if len(stable) == 0 {
		return nil, newError(ErrExtensionNotFound, extensionID, fmt.Errorf("marketplace lists no versions"))
	}
	return stable, nil
}

// packageURL builds the gallery "vspackage" download URL.
func (c *MarketplaceClient) packageURL(publisher, name, version string, platform Platform) string {
	u := fmt.Sprintf("%s/_apis/public/gallery/publishers/%s/vsextensions/%s/%s/vspackage",
		c.baseURL, url.PathEscape(publisher), url.PathEscape(name), url.PathEscape(version))
	if platform != "" {
		u += "?targetPlatform=" + url.QueryEscape(string(platform))
	}
	return u
}

// Fetch opens the asset's download stream without decoding it.
func (c *MarketplaceClient) Fetch(ctx context.Context, asset AssetDescriptor) (*Payload, error) {
	resp, err := c.get(ctx, asset.DownloadURL, true)
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Extension: asset.ExtensionID, Asset: asset.String(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &Error{Kind: ErrHTTPStatus, Extension: asset.ExtensionID, Asset: asset.String(), StatusCode: resp.StatusCode}
	}

	return &Payload{
		Body:            resp.Body,
		ContentEncoding: strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))),
		ContentLength:   resp.ContentLength,
	}, nil
}

// Details returns the extension's README, falling back to its short
// description when the marketplace has none.
func (c *MarketplaceClient) Details(ctx context.Context, extensionID string) (string, error) {
	e, err := c.lookup(ctx, extensionID, searchFlags)
	if err != nil {
		return "", err
	}
	if len(e.Versions) == 0 || e.Versions[0].file(detailsAssetType) == "" {
		return e.ShortDescription, nil
	}

	resp, err := c.get(ctx, e.Versions[0].file(detailsAssetType), false)
	if err != nil {
		return "", newError(ErrNetwork, extensionID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Kind: ErrHTTPStatus, Extension: extensionID, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDetailsSize))
	if err != nil {
		return "", newError(ErrNetwork, extensionID, err)
	}
	return string(data), nil
}

// get issues a GET. When acceptGzip is set the caller is responsible for
// decoding the body according to its Content-Encoding.
func (c *MarketplaceClient) get(ctx context.Context, rawURL string, acceptGzip bool) (*http.Response, error) {
	if rawURL == "" {
		return nil, errors.New("empty download url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if acceptGzip {
		req.Header.Set("Accept-Encoding", "gzip")
	}

	slog.Debug("fetch", "url", rawURL)
	return c.httpClient.Do(req)
}
