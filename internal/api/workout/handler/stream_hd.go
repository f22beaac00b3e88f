package workoutHandler

import (
	"FitnessGolang/internal/api/workout"
	"FitnessGolang/internal/middleware"
	contextPkg "FitnessGolang/pkg/context"
	"FitnessGolang/pkg/handlerUtil"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	streamSessionKey = "workout_session_id"
	streamUserKey    = "workout_user_id"

	streamReadTimeout  = 60 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// OpenStream creates the session before the upgrade so a bad exercise or
// config is answered with a plain HTTP error. A failed handshake releases the
// session again; once upgraded, handleStream owns it.
func (h *WorkoutHandler) OpenStream(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var query workout.StreamQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleBadRequest(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	userID := contextPkg.GetUserID(c)

	snap, err := h.workoutService.Session().Create(c, query.CreateRequest(), userID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_stream")
	}

	ctx.Locals(streamSessionKey, snap.ID)
	ctx.Locals(streamUserKey, userID)

	if err := ctx.Next(); err != nil {
		if discardErr := h.workoutService.Session().Discard(c, snap.ID); discardErr != nil && !errors.Is(discardErr, workout.ErrSessionNotFound) {
			h.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": snap.ID,
				"error":      discardErr.Error(),
			}).Error("Failed to discard workout session")
		}
		h.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": snap.ID,
			"error":      err.Error(),
		}).Warn("Workout stream handshake failed")
		return err
	}
	return nil
}

func (h *WorkoutHandler) handleStream(c *websocket.Conn) {
	sessionID, _ := c.Locals(streamSessionKey).(string)
	userID, _ := c.Locals(streamUserKey).(string)
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	ctx := contextPkg.WithRequestID(context.Background(), requestID)

	logger := h.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	})
	logger.Info("Workout stream connected")

	defer func() {
		err := h.workoutService.Session().Discard(ctx, sessionID)
		if err != nil && !errors.Is(err, workout.ErrSessionNotFound) {
			logger.WithField("error", err.Error()).Error("Failed to discard workout session")
		}
		logger.Info("Workout stream disconnected")
	}()

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			logger.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	snap, err := h.workoutService.Session().Get(ctx, sessionID)
	if err != nil {
		logger.WithField("error", err.Error()).Error("Workout session vanished before stream start")
		return
	}
	if err := h.writeStream(c, workout.StreamMessage{Type: workout.MessageSession, Session: &snap}); err != nil {
		logger.Errorf("Error writing initial snapshot: %v", err)
		return
	}

	for {
		if err := c.SetReadDeadline(time.Now().Add(streamReadTimeout)); err != nil {
			logger.Errorf("Error setting read deadline: %v", err)
			return
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Errorf("Workout stream error: %v", err)
			}
			return
		}

		var reply workout.StreamMessage
		finished := false

		switch messageType {
		case websocket.BinaryMessage:
			reply = h.frameReply(h.workoutService.Session().ProcessFrame(ctx, sessionID, message))
		case websocket.TextMessage:
			reply, finished = h.command(ctx, sessionID, userID, message)
		default:
			logger.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		if reply.Type == workout.MessageError {
			logger.WithField("error", reply.Error).Warn("Workout stream message rejected")
		}

		if err := h.writeStream(c, reply); err != nil {
			logger.Errorf("Error writing stream reply: %v", err)
			return
		}
		if finished {
			_ = c.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "workout finished"),
				time.Now().Add(5*time.Second))
			return
		}
	}
}

// command handles one JSON text message. The second result reports that the
// session was finished and the stream should close.
func (h *WorkoutHandler) command(ctx context.Context, sessionID, userID string, message []byte) (workout.StreamMessage, bool) {
	var cmd workout.StreamCommand
	if err := jsoniter.Unmarshal(message, &cmd); err != nil {
		return errorMessage(err), false
	}

	sessions := h.workoutService.Session()
	switch cmd.Type {
	case workout.CommandPose:
		return h.frameReply(sessions.ProcessPose(ctx, sessionID, cmd.Pose)), false
	case workout.CommandStart:
		return snapshotReply(sessions.Start(ctx, sessionID)), false
	case workout.CommandPause:
		return snapshotReply(sessions.Pause(ctx, sessionID)), false
	case workout.CommandReset:
		return snapshotReply(sessions.Reset(ctx, sessionID)), false
	case workout.CommandFinish:
		if userID == "" {
			return errorMessage(fiber.ErrUnauthorized), false
		}
		summary, err := h.workoutService.Record().Finish(ctx, sessionID, userID)
		if err != nil {
			return errorMessage(err), false
		}
		return workout.StreamMessage{Type: workout.MessageFinished, Summary: &summary}, true
	default:
		return errorMessage(workout.ErrUnknownCommand), false
	}
}

func (h *WorkoutHandler) frameReply(res workout.FrameResult, err error) workout.StreamMessage {
	if err != nil {
		return errorMessage(err)
	}
	return workout.StreamMessage{
		Type:       workout.MessageFrame,
		RepCounted: res.RepCounted,
		Session:    &res.Session,
	}
}

func snapshotReply(snap workout.SessionSnapshot, err error) workout.StreamMessage {
	if err != nil {
		return errorMessage(err)
	}
	return workout.StreamMessage{Type: workout.MessageSession, Session: &snap}
}

func errorMessage(err error) workout.StreamMessage {
	return workout.StreamMessage{Type: workout.MessageError, Error: err.Error()}
}

func (h *WorkoutHandler) writeStream(c *websocket.Conn, msg workout.StreamMessage) error {
	if err := c.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
		return err
	}

	payload, err := jsoniter.Marshal(msg)
	if err != nil {
		return err
	}
	if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
		return err
	}

	return c.SetWriteDeadline(time.Time{})
}
