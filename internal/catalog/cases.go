// Package catalog holds the built-in end-to-end suite for the cat-image
// catalog API: one case per documented behavior, each built from the request
// facade plus the structural validator.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/catcheck/catcheck/internal/client"
	"github.com/catcheck/catcheck/internal/schema"
	"github.com/catcheck/catcheck/internal/suite"
)

// voteImageID is a stable public image used for write-path cases.
const voteImageID = "0XYvRd7oD"

// Suite builds the built-in cases. NewClient must return a fresh facade per
// call; cases that issue concurrent requests take several. HasKey gates the
// write-path cases, which need an API key to succeed.
type Suite struct {
	NewClient func() *client.Client
	HasKey    bool
}

func (s *Suite) skipWithoutKey() string {
	if s.HasKey {
		return ""
	}
	return "api key not configured"
}

// Cases returns the full suite in a stable order.
func (s *Suite) Cases() []suite.Case {
	return []suite.Case{
		{Name: "image search returns well-formed images", Run: s.imageSearch},
		{Name: "image search respects limit parameter", Run: s.imageSearchLimit},
		{Name: "breed listing conforms to breed schema", Run: s.breedListing},
		{Name: "category listing conforms to category schema", Run: s.categoryListing},
		{Name: "unknown resource returns 404", Run: s.unknownResource},
		{Name: "concurrent searches stay independent", Run: s.concurrentSearches},
		{Name: "vote create and delete round trip", Skip: s.skipWithoutKey(), Run: s.voteRoundTrip},
		{Name: "favourite lifecycle", Skip: s.skipWithoutKey(), Run: s.favouriteLifecycle},
		{Name: "favourite create without key is rejected", Run: s.favouriteUnauthorized},
	}
}

func (s *Suite) imageSearch(ctx context.Context, c *suite.Check) error {
	res, err := s.NewClient().Get(ctx, "/v1/images/search",
		client.Param{Key: "limit", Value: 5},
		client.Param{Key: "order", Value: "RAND"},
	)
	if err != nil {
		return err
	}
	c.ExpectStatus(res, 200)
	c.ExpectSchema(res.Body, schema.Array(ImageSchema))
	return nil
}

func (s *Suite) imageSearchLimit(ctx context.Context, c *suite.Check) error {
	res, err := s.NewClient().Get(ctx, "/v1/images/search",
		client.Param{Key: "limit", Value: 1},
	)
	if err != nil {
		return err
	}
	c.ExpectOK(res)
	arr, ok := res.Body.([]any)
	if !ok {
		c.Failf("expected an array body but got %s", schema.KindOf(res.Body))
		return nil
	}
	if len(arr) != 1 {
		c.Failf("expected exactly 1 image, got %d", len(arr))
	}
	return nil
}

func (s *Suite) breedListing(ctx context.Context, c *suite.Check) error {
	res, err := s.NewClient().Get(ctx, "/v1/breeds",
		client.Param{Key: "limit", Value: 10},
	)
	if err != nil {
		return err
	}
	c.ExpectStatus(res, 200)
	c.ExpectSchema(res.Body, schema.Array(BreedSchema))
	return nil
}

func (s *Suite) categoryListing(ctx context.Context, c *suite.Check) error {
	res, err := s.NewClient().Get(ctx, "/v1/categories")
	if err != nil {
		return err
	}
	c.ExpectStatus(res, 200)
	c.ExpectSchema(res.Body, schema.Array(CategorySchema))
	return nil
}

func (s *Suite) unknownResource(ctx context.Context, c *suite.Check) error {
	res, err := s.NewClient().Get(ctx, "/v1/no-such-resource")
	if err != nil {
		return err
	}
	c.ExpectNotOK(res)
	c.ExpectStatus(res, 404)
	// No schema validation on the error path.
	return nil
}

func (s *Suite) concurrentSearches(ctx context.Context, c *suite.Check) error {
	var wg sync.WaitGroup
	results := make([]*client.Result, 3)
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cl := s.NewClient()
			results[i], errs[i] = cl.Get(ctx, "/v1/images/search",
				client.Param{Key: "limit", Value: 1},
			)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 3; i++ {
		if errs[i] != nil {
			return errs[i]
		}
		c.ExpectOK(results[i])
	}
	return nil
}

func (s *Suite) voteRoundTrip(ctx context.Context, c *suite.Check) error {
	cl := s.NewClient()

	res, err := cl.Post(ctx, "/v1/votes", map[string]any{
		"image_id": voteImageID,
		"value":    1,
	})
	if err != nil {
		return err
	}
	c.ExpectOK(res)
	id, ok := c.ExpectField(res.Body, "id")
	if !ok {
		return nil
	}
	if k := schema.KindOf(id); k != schema.KindInteger {
		c.Failf("Expected integer but got %s", k)
		return nil
	}

	del, err := cl.Delete(ctx, fmt.Sprintf("/v1/votes/%v", formatID(id)))
	if err != nil {
		return err
	}
	c.ExpectOK(del)
	return nil
}

func (s *Suite) favouriteLifecycle(ctx context.Context, c *suite.Check) error {
	cl := s.NewClient()

	res, err := cl.Post(ctx, "/v1/favourites", map[string]any{
		"image_id": voteImageID,
	})
	if err != nil {
		return err
	}
	c.ExpectOK(res)
	id, ok := c.ExpectField(res.Body, "id")
	if !ok {
		return nil
	}

	list, err := cl.Get(ctx, "/v1/favourites")
	if err != nil {
		return err
	}
	c.ExpectStatus(list, 200)
	c.ExpectSchema(list.Body, schema.Array(FavouriteSchema))

	del, err := cl.Delete(ctx, fmt.Sprintf("/v1/favourites/%v", formatID(id)))
	if err != nil {
		return err
	}
	c.ExpectOK(del)
	return nil
}

func (s *Suite) favouriteUnauthorized(ctx context.Context, c *suite.Check) error {
	cl := s.NewClient()
	res, err := cl.Execute(ctx, client.Descriptor{
		Method:  "POST",
		Path:    "/v1/favourites",
		Headers: map[string]string{"X-Api-Key": ""},
		Body:    map[string]any{"image_id": voteImageID},
	})
	if err != nil {
		return err
	}
	c.ExpectNotOK(res)
	return nil
}

// formatID renders a numeric id without a trailing ".0" from float decoding.
func formatID(id any) string {
	if f, ok := id.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%v", id)
}
