package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// corpCodeDoc mirrors the XML document inside the corpCode.xml zip bundle.
type corpCodeDoc struct {
	List []corpCodeEntry `xml:"list"`
}

type corpCodeEntry struct {
	CorpCode   string `xml:"corp_code"`
	CorpName   string `xml:"corp_name"`
	StockCode  string `xml:"stock_code"`
	ModifyDate string `xml:"modify_date"`
}

// DownloadCorpCodes performs the one-shot bulk download of every registered
// company identifier. The registry serves a zip containing a single XML file;
// the result is returned as a flat list in registry order.
//
// This is an offline batch operation (cmd/corpsync), not part of the request path.
func (c *Client) DownloadCorpCodes(ctx context.Context) ([]CorpInfo, error) {
	params := url.Values{}
	params.Set("crtfc_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/corpCode.xml?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("corp code download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("corp code download returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read corp code bundle: %w", err)
	}

	return parseCorpCodeZip(body)
}

// parseCorpCodeZip extracts and parses the XML document from the zip bundle.
func parseCorpCodeZip(data []byte) ([]CorpInfo, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		// A key rejection comes back as a plain JSON/XML error body, not a zip.
		return nil, fmt.Errorf("corp code bundle is not a zip archive: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("corp code bundle is empty")
	}

	f, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open corp code xml: %w", err)
	}
	defer f.Close()

	xmlBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read corp code xml: %w", err)
	}

	var doc corpCodeDoc
	if err := xml.Unmarshal(xmlBytes, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse corp code xml: %w", err)
	}

	corps := make([]CorpInfo, 0, len(doc.List))
	for _, e := range doc.List {
		corps = append(corps, CorpInfo{
			CorpCode: strings.TrimSpace(e.CorpCode),
			CorpName: strings.TrimSpace(e.CorpName),
			// Unlisted companies carry a single space, not an empty tag.
			StockCode:  strings.TrimSpace(e.StockCode),
			ModifyDate: strings.TrimSpace(e.ModifyDate),
		})
	}
	return corps, nil
}

// SaveCorpCodes writes the snapshot consumed by the company directory.
func SaveCorpCodes(corps []CorpInfo, path string) error {
	data, err := json.MarshalIndent(corps, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal corp codes: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadCorpCodes reads a corpCodes.json snapshot.
func LoadCorpCodes(path string) ([]CorpInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var corps []CorpInfo
	if err := json.Unmarshal(data, &corps); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return corps, nil
}
