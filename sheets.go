package grademywork

import (
	"context"
)

type answerRequest struct {
	Answer interface{} `json:"answer"`
}

func sheetParams(username, caption, sheet string) Params {
	return Params{"username": username, "assessmentCaption": caption, "sheet": sheet}
}

// SetAnswer records the answer to one question of a sheet. Answers do not
// touch the session cache.
func (c *Client) SetAnswer(ctx context.Context, username, caption, sheet, question string, answer interface{}) error {
	params := sheetParams(username, caption, sheet)
	params["question"] = question
	return c.do(ctx, routeSetAnswer, params, answerRequest{Answer: answer}, nil)
}

// GetSheet returns one sheet of an assessment.
func (c *Client) GetSheet(ctx context.Context, username, caption, sheet string) (*Sheet, error) {
	var s Sheet
	if err := c.do(ctx, routeGetSheet, sheetParams(username, caption, sheet), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AddSheet appends a sheet named sheetCaption to an assessment.
func (c *Client) AddSheet(ctx context.Context, username, caption, sheetCaption string) error {
	return c.mutate(ctx, routeAddSheet, assessmentParams(username, caption), captionRequest{Caption: sheetCaption}, nil)
}

// UpdateSheet renames a sheet.
func (c *Client) UpdateSheet(ctx context.Context, username, caption, sheet, newCaption string) error {
	return c.mutate(ctx, routeUpdateSheet, sheetParams(username, caption, sheet), captionRequest{Caption: newCaption}, nil)
}

// DeleteSheet removes a sheet.
func (c *Client) DeleteSheet(ctx context.Context, username, caption, sheet string) error {
	return c.mutate(ctx, routeDeleteSheet, sheetParams(username, caption, sheet), nil, nil)
}
