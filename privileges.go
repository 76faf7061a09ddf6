package grademywork

import (
	"context"
)

// GetPrivileges lists who has access to a sheet.
func (c *Client) GetPrivileges(ctx context.Context, username, caption, sheet string) ([]Privilege, error) {
	var privileges []Privilege
	if err := c.do(ctx, routeGetPrivileges, sheetParams(username, caption, sheet), nil, &privileges); err != nil {
		return nil, err
	}
	return privileges, nil
}

// AddPrivilege grants email the given access to a sheet.
func (c *Client) AddPrivilege(ctx context.Context, username, caption, sheet, email string, privilegeType PrivilegeType) error {
	body := Privilege{Email: email, Type: privilegeType}
	return c.mutate(ctx, routeAddPrivilege, sheetParams(username, caption, sheet), body, nil)
}

// DeletePrivilege revokes a privilege. The privilege is identified by the
// request body, which is sent with the DELETE.
func (c *Client) DeletePrivilege(ctx context.Context, username, caption, sheet, email string, privilegeType PrivilegeType) error {
	body := Privilege{Email: email, Type: privilegeType}
	return c.mutate(ctx, routeDeletePrivilege, sheetParams(username, caption, sheet), body, nil)
}
