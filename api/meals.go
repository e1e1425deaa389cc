package api

import (
	"context"
	"net/http"

	"github.com/MrEthical07/campusdesk/campus"
)

// Generic meal, schedule, feedback and chat messages.
const (
	LoadChoicesFailedMessage  = "Failed to load meal choices"
	SaveChoiceFailedMessage   = "Failed to save choice"
	LoadStatsFailedMessage    = "Failed to load meal stats"
	LoadScheduleFailedMessage = "Failed to load schedule"
	UploadFailedMessage       = "Upload failed"
	FeedbackFailedMessage     = "Failed to submit feedback"
	ChatFailedMessage         = "Failed to send message"
)

// MyMealChoices lists the signed-in student's meal choices.
func (c *Client) MyMealChoices(ctx context.Context) ([]campus.MealChoice, error) {
	var out []campus.MealChoice
	err := c.do(ctx, call{
		method:   http.MethodGet,
		route:    "/meals/my-choices",
		path:     "/meals/my-choices",
		fallback: LoadChoicesFailedMessage,
	}, &out)
	return out, err
}

// ChooseMeal records a meal choice.
func (c *Client) ChooseMeal(ctx context.Context, choice campus.MealChoice) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		route:    "/meals/choose",
		path:     "/meals/choose",
		body:     choice,
		fallback: SaveChoiceFailedMessage,
	}, nil)
}

// TodayMealStats returns today's headcount per meal.
func (c *Client) TodayMealStats(ctx context.Context) (campus.MealStats, error) {
	var out campus.MealStats
	err := c.do(ctx, call{
		method:   http.MethodGet,
		route:    "/meals/stats/today",
		path:     "/meals/stats/today",
		fallback: LoadStatsFailedMessage,
	}, &out)
	return out, err
}

// LatestSchedule returns the most recently published weekly menu.
func (c *Client) LatestSchedule(ctx context.Context) (*campus.WeeklySchedule, error) {
	var out campus.WeeklySchedule
	err := c.do(ctx, call{
		method:   http.MethodGet,
		route:    "/schedule/latest",
		path:     "/schedule/latest",
		fallback: LoadScheduleFailedMessage,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadSchedule publishes a weekly menu.
func (c *Client) UploadSchedule(ctx context.Context, w campus.WeeklySchedule) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		route:    "/schedule/upload",
		path:     "/schedule/upload",
		body:     w,
		fallback: UploadFailedMessage,
	}, nil)
}

// SubmitFeedback rates a meal.
func (c *Client) SubmitFeedback(ctx context.Context, f campus.Feedback) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		route:    "/feedback",
		path:     "/feedback",
		body:     f,
		fallback: FeedbackFailedMessage,
	}, nil)
}

// Chat relays a message to the assistant.
func (c *Client) Chat(ctx context.Context, m campus.ChatMessage) (*campus.ChatReply, error) {
	var out campus.ChatReply
	err := c.do(ctx, call{
		method:   http.MethodPost,
		route:    "/chatbot",
		path:     "/chatbot",
		body:     m,
		fallback: ChatFailedMessage,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
