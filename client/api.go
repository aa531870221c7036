package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminLogin(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	in := LoginRequest{Username: username, Password: password, UserType: "admin"}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login/admin", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) RegisterStudent(ctx context.Context, in SignUpRequest) (string, error) {
	var out messageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/user/register/student", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) RegisterOrganizer(ctx context.Context, in SignUpRequest) (string, error) {
	var out messageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/user/register/organizer", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ListStudents(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.getJSON(ctx, "/user/students", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOrganizers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.getJSON(ctx, "/user/organizers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UserCounts(ctx context.Context) (*UserCounts, error) {
	var out UserCounts
	if err := c.getJSON(ctx, "/user/user-counts", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EventCounts(ctx context.Context) (*EventCounts, error) {
	var out EventCounts
	if err := c.getJSON(ctx, "/user/event-counts", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminHackathons(ctx context.Context) ([]AdminHackathon, error) {
	var out struct {
		Hackathons []AdminHackathon `json:"hackathons"`
	}
	if err := c.getJSON(ctx, "/user/hackathons", &out); err != nil {
		return nil, err
	}
	return out.Hackathons, nil
}

// ListHackathons returns all events; a non-empty query searches name and venue.
func (c *Client) ListHackathons(ctx context.Context, query string) ([]Hackathon, error) {
	path := "/hackathons"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var out []Hackathon
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetHackathon(ctx context.Context, id string) (*Hackathon, error) {
	var out Hackathon
	if err := c.getJSON(ctx, "/hackathons/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddHackathon(ctx context.Context, in HostRequest) (*Hackathon, string, error) {
	var out struct {
		Message   string    `json:"message"`
		Hackathon Hackathon `json:"hackathon"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/hackathons/add", in, &out); err != nil {
		return nil, "", err
	}
	return &out.Hackathon, out.Message, nil
}

// GenerateReport downloads the PDF report. The filename comes from
// Content-Disposition; fallbackName is used when the header has none.
func (c *Client) GenerateReport(ctx context.Context, hackathonID, fallbackName string) (*Report, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/hackathons/generate-report/"+url.PathEscape(hackathonID), nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}

	filename := ""
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	if filename == "" {
		if fallbackName == "" {
			fallbackName = hackathonID
		}
		filename = "Hackathon_Report_" + fallbackName + ".pdf"
	}
	return &Report{Filename: filename, Content: resp.body}, nil
}

type registrationResponse struct {
	Message      string       `json:"message"`
	Registration Registration `json:"registration"`
}

// SubmitRegistration posts JSON, or multipart when a proposal is attached.
func (c *Client) SubmitRegistration(ctx context.Context, in RegistrationRequest, file *Attachment) (*Registration, error) {
	if in.Members == nil {
		in.Members = []TeamMember{}
	}

	var out registrationResponse
	if file == nil {
		if err := c.sendJSON(ctx, http.MethodPost, "/registeredhackathon/register", in, &out); err != nil {
			return nil, err
		}
		return &out.Registration, nil
	}

	body, contentType, err := registrationMultipart(in, file)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/registeredhackathon/register", body, contentType)
	if err != nil {
		return nil, err
	}
	if err := c.decode(req, &out); err != nil {
		return nil, err
	}
	return &out.Registration, nil
}

func registrationMultipart(in RegistrationRequest, file *Attachment) (*bytes.Buffer, string, error) {
	members, err := json.Marshal(in.Members)
	if err != nil {
		return nil, "", fmt.Errorf("marshal members: %w", err)
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fields := []struct{ name, value string }{
		{"hackathonId", in.HackathonID},
		{"studentId", in.StudentID},
		{"isTeam", strconv.FormatBool(in.IsTeam)},
		{"teamName", in.TeamName},
		{"name", in.Name},
		{"email", in.Email},
		{"leaderName", in.LeaderName},
		{"datebirth", in.DateOfBirth},
		{"leaderEmail", in.LeaderEmail},
		{"phone", in.Phone},
		{"education", in.Education},
		{"hasParticipated", in.HasParticipated},
		{"members", string(members)},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	fw, err := mw.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := fw.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}

// CheckRegistration never fails on 401: a missing or rejected session simply
// means "not registered", and the session is left alone.
func (c *Client) CheckRegistration(ctx context.Context, hackathonID string) (bool, error) {
	var out struct {
		IsRegistered bool `json:"isRegistered"`
	}
	err := c.getJSON(ctx, "/registeredhackathon/check/"+url.PathEscape(hackathonID), &out)
	if errors.Is(err, ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return out.IsRegistered, nil
}

func (c *Client) HackathonRegistrations(ctx context.Context, hackathonID string) ([]Registration, error) {
	var out []Registration
	if err := c.getJSON(ctx, "/registeredhackathon/hackathon/"+url.PathEscape(hackathonID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrganizerHackathons lists an organizer's events; kind is ListOrganizerUpcoming,
// ListUpcoming or ListConducted.
func (c *Client) OrganizerHackathons(ctx context.Context, organizerID, kind string) ([]Hackathon, error) {
	path := "/registeredhackathon/organizer/" + url.PathEscape(organizerID)
	if kind != "" {
		path += "?type=" + url.QueryEscape(kind)
	}
	var out []Hackathon
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StudentHackathons(ctx context.Context, studentID, kind string) ([]StudentEvent, error) {
	path := "/registeredhackathon/registeredhackathons/" + url.PathEscape(studentID)
	if kind != "" {
		path += "?type=" + url.QueryEscape(kind)
	}
	var out []StudentEvent
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListProposals(ctx context.Context, organizerID string) ([]ProposalView, error) {
	var out []ProposalView
	if err := c.getJSON(ctx, "/proposals?organizerId="+url.QueryEscape(organizerID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type decisionResponse struct {
	Message  string       `json:"message"`
	Proposal ProposalView `json:"proposal"`
}

func (c *Client) ApproveProposal(ctx context.Context, id string) (*ProposalView, error) {
	return c.decide(ctx, id, "approve")
}

func (c *Client) RejectProposal(ctx context.Context, id string) (*ProposalView, error) {
	return c.decide(ctx, id, "reject")
}

func (c *Client) decide(ctx context.Context, id, action string) (*ProposalView, error) {
	var out decisionResponse
	if err := c.sendJSON(ctx, http.MethodPut, "/proposals/"+url.PathEscape(id)+"/"+action, nil, &out); err != nil {
		return nil, err
	}
	return &out.Proposal, nil
}
