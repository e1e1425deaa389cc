package campusdesk

import (
	"context"
	"io"
	"strings"

	"github.com/MrEthical07/campusdesk/api"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/role"
	"go.uber.org/zap"
)

// Meal notices.
const (
	ScheduleUploadedMessage = "Mess schedule uploaded and students notified!"
	FeedbackThanksMessage   = "Thank you for your feedback!"
)

var scheduleStaff = role.Of(role.MessAdmin, role.SuperAdmin, role.Admin)

// MyMealChoices loads the student's choices into the choice book.
func (d *Desk) MyMealChoices(ctx context.Context) ([]campus.MealChoice, error) {
	if _, err := d.requireRole(students); err != nil {
		return nil, err
	}
	choices, err := d.client.MyMealChoices(ctx)
	if err != nil {
		return nil, d.fail(ctx, "meals.choices", err, api.LoadChoicesFailedMessage)
	}
	for _, c := range choices {
		d.choices.Set(c)
	}
	return choices, nil
}

// ChooseMeal records a veg or non-veg choice. A zero date means today.
func (d *Desk) ChooseMeal(ctx context.Context, c campus.MealChoice) error {
	if _, err := d.requireRole(students); err != nil {
		return err
	}
	if c.Date.IsZero() {
		c.Date = d.Now()
	}
	if err := c.Validate(); err != nil {
		return d.reject(ctx, "meals.choose", err)
	}

	if err := d.client.ChooseMeal(ctx, c); err != nil {
		return d.fail(ctx, "meals.choose", err, api.SaveChoiceFailedMessage)
	}
	d.choices.Set(c)
	d.metricInc(MetricMealChosen)
	d.emit(ctx, NoticeSuccess, "meals.choose",
		string(c.MealType)+" set to "+strings.ReplaceAll(string(c.Preference), "_", " "))
	return nil
}

// TodayMealStats returns today's headcount per meal. Failures are returned without a
// notice since the live view refreshes on its own.
func (d *Desk) TodayMealStats(ctx context.Context) (campus.MealStats, error) {
	if _, err := d.requireRole(role.Set{}); err != nil {
		return nil, err
	}
	stats, err := d.client.TodayMealStats(ctx)
	if err != nil {
		d.log.Debug("load meal stats", zap.Error(err))
		return nil, err
	}
	return stats, nil
}

// LatestSchedule returns the current weekly menu, nil when none was uploaded.
func (d *Desk) LatestSchedule(ctx context.Context) (*campus.WeeklySchedule, error) {
	if _, err := d.requireRole(role.Set{}); err != nil {
		return nil, err
	}
	w, err := d.client.LatestSchedule(ctx)
	if err != nil {
		return nil, d.fail(ctx, "schedule.latest", err, api.LoadScheduleFailedMessage)
	}
	return w, nil
}

// UploadSchedule publishes a weekly menu. A missing week start is refused locally.
func (d *Desk) UploadSchedule(ctx context.Context, w campus.WeeklySchedule) error {
	if _, err := d.requireRole(scheduleStaff); err != nil {
		return err
	}
	if err := w.Validate(); err != nil {
		return d.reject(ctx, "schedule.upload", err)
	}

	if err := d.client.UploadSchedule(ctx, w); err != nil {
		return d.fail(ctx, "schedule.upload", err, api.UploadFailedMessage)
	}
	d.metricInc(MetricScheduleUploaded)
	d.emit(ctx, NoticeSuccess, "schedule.upload", ScheduleUploadedMessage)
	return nil
}

// UploadScheduleFile reads a YAML weekly menu from r and uploads it.
func (d *Desk) UploadScheduleFile(ctx context.Context, r io.Reader) (campus.WeeklySchedule, error) {
	if _, err := d.requireRole(scheduleStaff); err != nil {
		return campus.WeeklySchedule{}, err
	}
	w, err := campus.LoadSchedule(r)
	if err != nil {
		return w, d.reject(ctx, "schedule.upload", err)
	}
	return w, d.UploadSchedule(ctx, w)
}

// SubmitFeedback rates a meal. A missing rating is refused locally.
func (d *Desk) SubmitFeedback(ctx context.Context, f campus.Feedback) error {
	if _, err := d.requireRole(students); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return d.reject(ctx, "feedback", err)
	}

	if err := d.client.SubmitFeedback(ctx, f); err != nil {
		return d.fail(ctx, "feedback", err, api.FeedbackFailedMessage)
	}
	d.metricInc(MetricFeedbackSubmitted)
	d.emit(ctx, NoticeSuccess, "feedback", FeedbackThanksMessage)
	return nil
}

// Chat relays message to the assistant. On failure the fallback reply is returned
// together with the error.
func (d *Desk) Chat(ctx context.Context, message string) (string, error) {
	if err := d.ready(); err != nil {
		return "", err
	}
	msg := campus.ChatMessage{Message: strings.TrimSpace(message)}
	if err := msg.Validate(); err != nil {
		return "", d.reject(ctx, "chat", err)
	}

	d.metricInc(MetricChatMessage)
	reply, err := d.client.Chat(ctx, msg)
	if err != nil {
		return campus.ChatFallbackReply, d.fail(ctx, "chat", err, api.ChatFailedMessage)
	}
	return reply.Response, nil
}
