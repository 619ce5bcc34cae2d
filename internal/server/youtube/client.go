package youtube

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/logging"
	"github.com/dmitrijs2005/remember/internal/server/models"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	// maxPageBytes caps how much of a watch page is read.
	maxPageBytes = 5 << 20

	msgNoTitle    = "Could not extract video title automatically, please enter it manually."
	msgFetchError = "Could not fetch video title, please enter it manually."
)

// Client fetches watch pages from YouTube (or a compatible base URL).
type Client struct {
	http   *resty.Client
	logger logging.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger logging.Logger) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept-Language", "en").
		SetTimeout(timeout).
		SetResponseBodyLimit(maxPageBytes)

	return &Client{http: c, logger: logger}
}

// FetchInfo resolves the title and preview thumbnail for rawURL.
//
// Only an unrecognisable URL is an error. When the page cannot be fetched or
// carries no title, the result holds models.DefaultVideoTitle and a Message
// asking the user to fill the title in.
func (c *Client) FetchInfo(ctx context.Context, rawURL string) (*models.VideoInfo, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, common.NewValidationError("YouTube URL is required")
	}

	id := ExtractVideoID(rawURL)
	if id == "" {
		return nil, common.ErrInvalidVideoURL
	}

	info := &models.VideoInfo{VideoID: id, Thumbnail: PreviewThumbnailURL(id)}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("v", id).
		Get("/watch")
	if err != nil {
		c.logger.Warn(ctx, "youtube fetch failed", "video_id", id, "error", err)
		info.Title, info.Message = models.DefaultVideoTitle, msgFetchError
		return info, nil
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Warn(ctx, "youtube fetch failed", "video_id", id, "status", resp.StatusCode())
		info.Title, info.Message = models.DefaultVideoTitle, msgFetchError
		return info, nil
	}

	title := ExtractTitle(resp.String())
	if title == "" {
		info.Title, info.Message = models.DefaultVideoTitle, msgNoTitle
		return info, nil
	}

	info.Title = title
	return info, nil
}

var jsonTitleRegex = regexp.MustCompile(`"title":"([^"]+)"`)

// ExtractTitle finds a video title in a watch page: og:title first, then the
// document title without the " - YouTube" suffix, then the first "title"
// field of the embedded player JSON.
func ExtractTitle(page string) string {
	if doc, err := html.Parse(strings.NewReader(page)); err == nil {
		var og, docTitle string
		walk(doc, func(n *html.Node) {
			switch n.Data {
			case "meta":
				if og == "" && attr(n, "property") == "og:title" {
					og = strings.TrimSpace(attr(n, "content"))
				}
			case "title":
				if docTitle == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					docTitle = strings.TrimSpace(strings.Replace(n.FirstChild.Data, " - YouTube", "", 1))
				}
			}
		})
		if og != "" {
			return og
		}
		if docTitle != "" {
			return docTitle
		}
	}

	if m := jsonTitleRegex.FindStringSubmatch(page); len(m) == 2 {
		return m[1]
	}
	return ""
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
