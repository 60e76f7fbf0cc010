package rest

import (
	"bytes"
	"context"
	"net/http"

	"academia/models"
)

const usersPath = "/api/usuarios"

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	data, err := c.call(ctx, "login", http.MethodPost, usersPath+"/login", "", creds)
	if err != nil {
		return nil, err
	}
	var res models.LoginResult
	if err := decode("login", data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register gibt die Bestätigungsmeldung des Servers zurück (Text oder JSON).
func (c *Client) Register(ctx context.Context, reg models.Registration) (string, error) {
	data, err := c.call(ctx, "register", http.MethodPost, usersPath+"/registro", "", reg)
	if err != nil {
		return "", err
	}
	if msg, ok := jsonMessage(data); ok {
		return msg, nil
	}
	return string(bytes.TrimSpace(data)), nil
}

func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	data, err := c.call(ctx, "get_profile", http.MethodGet, usersPath+"/perfil", token, nil)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := decode("get_profile", data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update models.ProfileUpdate) (*models.User, error) {
	data, err := c.call(ctx, "update_profile", http.MethodPut, usersPath+"/perfil", token, update)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := decode("update_profile", data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	_, err := c.call(ctx, "delete_account", http.MethodDelete, usersPath+"/me", token, nil)
	return err
}
