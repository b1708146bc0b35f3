package moltin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// GetAllProducts lists the published catalog.
func (c *Client) GetAllProducts(ctx context.Context) ([]Product, error) {
	var resp struct {
		Data []productData `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/catalog/products", nil, &resp); err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(resp.Data))
	for _, p := range resp.Data {
		products = append(products, p.toProduct())
	}
	return products, nil
}

// GetProduct fetches full detail for one product.
func (c *Client) GetProduct(ctx context.Context, productID string) (Product, error) {
	var resp struct {
		Data productData `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/catalog/products/"+productID, nil, &resp); err != nil {
		return Product{}, err
	}
	return resp.Data.toProduct(), nil
}

// GetProductMainImageID resolves the file id of a product's main image.
func (c *Client) GetProductMainImageID(ctx context.Context, productID string) (string, error) {
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	path := "/pcm/products/" + productID + "/relationships/main_image"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Data.ID, nil
}

// DownloadProductMainImage fetches image bytes for a file id into MediaDir
// and returns the local path, usable for re-upload to Telegram.
func (c *Client) DownloadProductMainImage(ctx context.Context, fileID string) (string, error) {
	var resp struct {
		Data fileData `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/files/"+fileID, nil, &resp); err != nil {
		return "", err
	}
	if resp.Data.Link.Href == "" {
		return "", fmt.Errorf("moltin: file %s has no download link", fileID)
	}

	if err := os.MkdirAll(c.cfg.MediaDir, 0o755); err != nil {
		return "", fmt.Errorf("moltin: create media dir: %w", err)
	}
	path := filepath.Join(c.cfg.MediaDir, "main_image_"+filepath.Base(resp.Data.FileName))

	// The link is a pre-signed CDN URL; no bearer token here.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resp.Data.Link.Href, nil)
	if err != nil {
		return "", fmt.Errorf("moltin: build image request: %w", err)
	}
	imgResp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("moltin: download image %s: %w", fileID, err)
	}
	defer imgResp.Body.Close()
	if imgResp.StatusCode < 200 || imgResp.StatusCode >= 300 {
		return "", readAPIError(imgResp)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("moltin: create image file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, imgResp.Body); err != nil {
		return "", fmt.Errorf("moltin: write image file: %w", err)
	}
	return path, nil
}
