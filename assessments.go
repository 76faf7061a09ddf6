package grademywork

import (
	"context"
)

type captionRequest struct {
	Caption string `json:"caption"`
}

type publicRequest struct {
	IsPublic bool `json:"isPublic"`
}

type archiveRequest struct {
	IsArchived bool `json:"isArchived"`
}

type releaseRequest struct {
	IsReleased bool `json:"isReleased"`
}

func assessmentParams(username, caption string) Params {
	return Params{"username": username, "assessmentCaption": caption}
}

// NewAssessment creates the assessment caption owned by username.
func (c *Client) NewAssessment(ctx context.Context, username, caption string, input AssessmentInput) error {
	params := Params{"username": username, "caption": caption}
	return c.mutate(ctx, routeNewAssessment, params, input, nil)
}

// GetAssessment returns an assessment. The cached one is used only when it
// was fetched for the same username and caption.
func (c *Client) GetAssessment(ctx context.Context, username, caption string) (*Assessment, error) {
	if assessment, ok := c.cache.Assessment(username, caption); ok {
		c.metrics.RecordCacheHit(SlotAssessment)
		if c.debugEnabled(c.debug.LogCache) {
			c.logger.Debug("Session cache hit", "slot", SlotAssessment, "username", username, "caption", caption)
		}
		return assessment, nil
	}
	c.metrics.RecordCacheMiss(SlotAssessment)

	fetch := func() (*Assessment, error) {
		var assessment Assessment
		if err := c.do(ctx, routeGetAssessment, assessmentParams(username, caption), nil, &assessment); err != nil {
			return nil, err
		}
		c.cacheAssessment(username, caption, &assessment)
		return &assessment, nil
	}

	if c.assessmentFlight == nil {
		return fetch()
	}

	// The key must separate username and caption unambiguously.
	key := username + "\x00" + caption
	assessment, err, shared := c.assessmentFlight.Do(key, fetch)
	if err != nil {
		return nil, err
	}
	if shared {
		c.metrics.RecordDeduplicationHit(SlotAssessment)
	}
	return assessment.clone(), nil
}

// UpdateAssessment renames an assessment.
func (c *Client) UpdateAssessment(ctx context.Context, username, caption, newCaption string) error {
	return c.mutate(ctx, routeUpdateAssessment, assessmentParams(username, caption), captionRequest{Caption: newCaption}, nil)
}

// SetPublic toggles whether the assessment is visible to everyone.
func (c *Client) SetPublic(ctx context.Context, username, caption string, isPublic bool) error {
	return c.mutate(ctx, routeSetPublic, assessmentParams(username, caption), publicRequest{IsPublic: isPublic}, nil)
}

// SetArchive toggles whether the assessment is archived.
func (c *Client) SetArchive(ctx context.Context, username, caption string, isArchived bool) error {
	return c.mutate(ctx, routeSetArchive, assessmentParams(username, caption), archiveRequest{IsArchived: isArchived}, nil)
}

// SetRelease toggles whether grades are released to students.
func (c *Client) SetRelease(ctx context.Context, username, caption string, isReleased bool) error {
	return c.mutate(ctx, routeSetRelease, assessmentParams(username, caption), releaseRequest{IsReleased: isReleased}, nil)
}

// GetAssessmentStats returns the statistics of an assessment. Never cached.
func (c *Client) GetAssessmentStats(ctx context.Context, username, caption string) (AssessmentStats, error) {
	var stats AssessmentStats
	if err := c.do(ctx, routeAssessmentStats, assessmentParams(username, caption), nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteAssessment removes an assessment.
func (c *Client) DeleteAssessment(ctx context.Context, username, caption string) error {
	return c.mutate(ctx, routeDeleteAssessment, assessmentParams(username, caption), nil, nil)
}

// mutate sends a state-changing request and clears the session cache once
// it succeeded.
func (c *Client) mutate(ctx context.Context, route Route, params Params, body, out interface{}) error {
	if err := c.do(ctx, route, params, body, out); err != nil {
		return err
	}
	c.ClearCache()
	return nil
}
