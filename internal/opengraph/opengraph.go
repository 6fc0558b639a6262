// Package opengraph fetches a page and extracts its Open Graph metadata.
package opengraph

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Image is one og:image descriptor.
type Image struct {
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
	Alt    string `json:"alt,omitempty"`
}

// Result is the metadata scraped from a page. Missing fields are empty.
type Result struct {
	Title       string  `json:"ogTitle"`
	Description string  `json:"ogDescription"`
	SiteName    string  `json:"ogSiteName,omitempty"`
	URL         string  `json:"ogUrl,omitempty"`
	Images      []Image `json:"ogImage"`
}

// FirstImageURL returns the URL of the first image, or "" when there is none.
func (r *Result) FirstImageURL() string {
	if r == nil || len(r.Images) == 0 {
		return ""
	}
	return r.Images[0].URL
}

// Parse extracts Open Graph metadata from an HTML document. base resolves
// relative image URLs and may be nil. When og: tags are absent, the
// document <title>, the description meta tag and twitter: tags are used.
func Parse(r io.Reader, base *url.URL) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var docTitle, metaDesc, twTitle, twDesc, twImage string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if docTitle == "" {
					docTitle = strings.TrimSpace(textContent(n))
				}
			case "meta":
				key := strings.ToLower(getAttr(n, "property"))
				if key == "" {
					key = strings.ToLower(getAttr(n, "name"))
				}
				content := strings.TrimSpace(getAttr(n, "content"))
				if key == "" || content == "" {
					break
				}
				switch key {
				case "og:title":
					res.Title = firstNonEmpty(res.Title, content)
				case "og:description":
					res.Description = firstNonEmpty(res.Description, content)
				case "og:site_name":
					res.SiteName = firstNonEmpty(res.SiteName, content)
				case "og:url":
					res.URL = firstNonEmpty(res.URL, content)
				case "og:image", "og:image:url":
					res.Images = append(res.Images, Image{URL: resolve(base, content)})
				case "og:image:secure_url":
					if img := lastImage(res); img != nil {
						img.URL = resolve(base, content)
					} else {
						res.Images = append(res.Images, Image{URL: resolve(base, content)})
					}
				case "og:image:type", "og:image:width", "og:image:height", "og:image:alt":
					if img := lastImage(res); img != nil {
						setImageProperty(img, key, content)
					}
				case "description":
					metaDesc = firstNonEmpty(metaDesc, content)
				case "twitter:title":
					twTitle = firstNonEmpty(twTitle, content)
				case "twitter:description":
					twDesc = firstNonEmpty(twDesc, content)
				case "twitter:image", "twitter:image:src":
					twImage = firstNonEmpty(twImage, content)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	res.Title = firstNonEmpty(res.Title, twTitle, docTitle)
	res.Description = firstNonEmpty(res.Description, metaDesc, twDesc)
	if len(res.Images) == 0 && twImage != "" {
		res.Images = []Image{{URL: resolve(base, twImage)}}
	}
	return res, nil
}

func lastImage(r *Result) *Image {
	if len(r.Images) == 0 {
		return nil
	}
	return &r.Images[len(r.Images)-1]
}

func setImageProperty(img *Image, key, value string) {
	switch key {
	case "og:image:type":
		img.Type = value
	case "og:image:width":
		img.Width = value
	case "og:image:height":
		img.Height = value
	case "og:image:alt":
		img.Alt = value
	}
}

func resolve(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
