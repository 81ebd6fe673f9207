package takarakuji

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"numbers4-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/takarakuji")

// DefaultBaseUrl is the root of the rakuten takarakuji back-number pages.
// The numbers4 pages hang off of it:
//
//	<base>/numbers4/<yyyymm>/   monthly results with payout amounts
//	<base>/numbers4_past/       archive index of detail range pages
//	<base>/numbers4_detail/NNNN-NNNN/  winning numbers for a 20 draw range
const DefaultBaseUrl = "https://takarakuji.rakuten.co.jp/backnumber"

// DefaultDelay is the politeness wait between consecutive page fetches.
const DefaultDelay = 300 * time.Millisecond

type ClientOptions struct {
	// override for tests, defaults to DefaultBaseUrl
	BaseUrl string
	// wait inserted between consecutive page fetches,
	// defaults to DefaultDelay, set to a negative value to disable
	Delay time.Duration
	// if non-nil, every request/response pair is dumped to it
	InstrumentOutput restyutil.InstrumentOutput
}

type Client struct {
	http  *resty.Client
	delay time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Delay == 0 {
		opts.Delay = DefaultDelay
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 20)

	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return &Client{
		http:  client,
		delay: opts.Delay,
	}, nil
}

// Throttle waits out the politeness delay, a courtesy toward the
// upstream server, not a rate limit we are subject to. Callers that
// drive multi-page loops themselves insert it between fetches.
func (c *Client) Throttle(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
		return nil
	}
}

func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for '%s'", res.StatusCode(), path)
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}
