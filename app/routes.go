package main

import (
	"errors"

	"github.com/sains1/flashapi/app/lib/http"
	"github.com/sains1/flashapi/app/store"
)

type AppState struct {
	Users store.UserStore
}

type userIdBody struct {
	Id int `json:"id"`
}

type userNameBody struct {
	Name string `json:"name"`
}

func registerRoutes(server *http.HttpServer) error {
	return errors.Join(
		server.Get("/user", http.WithState(handleGetUser)),
		server.Post("/user", http.WithState(handleEchoUser)),
		server.Get("/users", http.WithState(handleListUsers)),
		server.Post("/users/lookup", http.WithState(handleLookupUser)),
		server.Post("/users", http.WithState(handleCreateUser)),
		server.Patch("/users", http.WithState(handleUpdateUser)),
		server.Delete("/users", http.WithState(handleDeleteUser)),
	)
}

func handleGetUser(req http.HttpRequest, res *http.HttpResponse, _ *AppState) {
	req.Logger.Info().Msg("handling get user")
	res.SendJson(http.StatusOK, store.User{Id: 1, Name: "John Doe"})
}

func handleEchoUser(req http.HttpRequest, res *http.HttpResponse, _ *AppState) {
	if req.Body == nil {
		res.SendPlain(http.StatusBadRequest, "expected a json body")
		return
	}

	res.SendJson(http.StatusOK, req.Body)
}

func handleListUsers(req http.HttpRequest, res *http.HttpResponse, state *AppState) {
	users, err := state.Users.List()
	if err != nil {
		req.Logger.Error().Err(err).Msg("failed to list users")
		res.SendPlain(http.StatusInternalServerError, http.InternalServerErrorBody)
		return
	}

	res.SendJson(http.StatusOK, users)
}

func handleLookupUser(req http.HttpRequest, res *http.HttpResponse, state *AppState) {
	var body userIdBody
	if err := req.Bind(&body); err != nil {
		res.SendPlain(http.StatusBadRequest, "expected a json body with an id")
		return
	}

	user, err := state.Users.Get(body.Id)
	if err != nil {
		sendStoreError(req, res, err)
		return
	}

	res.SendJson(http.StatusOK, user)
}

func handleCreateUser(req http.HttpRequest, res *http.HttpResponse, state *AppState) {
	var body userNameBody
	if err := req.Bind(&body); err != nil {
		res.SendPlain(http.StatusBadRequest, "expected a json body with a name")
		return
	}

	user, err := state.Users.Create(body.Name)
	if err != nil {
		sendStoreError(req, res, err)
		return
	}

	req.Logger.Info().Int("id", user.Id).Msg("created user")
	res.SendJson(http.StatusCreated, user)
}

func handleUpdateUser(req http.HttpRequest, res *http.HttpResponse, state *AppState) {
	var body store.User
	if err := req.Bind(&body); err != nil {
		res.SendPlain(http.StatusBadRequest, "expected a json body with an id and a name")
		return
	}

	user, err := state.Users.Update(body)
	if err != nil {
		sendStoreError(req, res, err)
		return
	}

	res.SendJson(http.StatusOK, user)
}

func handleDeleteUser(req http.HttpRequest, res *http.HttpResponse, state *AppState) {
	var body userIdBody
	if err := req.Bind(&body); err != nil {
		res.SendPlain(http.StatusBadRequest, "expected a json body with an id")
		return
	}

	if err := state.Users.Delete(body.Id); err != nil {
		sendStoreError(req, res, err)
		return
	}

	res.SendJson(http.StatusOK, body)
}

func sendStoreError(req http.HttpRequest, res *http.HttpResponse, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		res.SendPlain(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrEmptyName):
		res.SendPlain(http.StatusBadRequest, err.Error())
	default:
		req.Logger.Error().Err(err).Msg("user store failed")
		res.SendPlain(http.StatusInternalServerError, http.InternalServerErrorBody)
	}
}
