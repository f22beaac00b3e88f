package websocketPkg

import (
	"FitnessGolang/pkg/repcount"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const defaultPoseModelURL = "ws://localhost:8000/api/v1/pose/ws"

var ErrNotConnected = errors.New("not connected to pose model service")

// IPoseEstimator sends camera frames to the remote pose model and returns the
// best pose it found. A nil pose with a nil error means no body was detected.
type IPoseEstimator interface {
	EstimatePose(frame []byte) (*repcount.Pose, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

// estimateResponse is the pose model's reply: zero or more poses for one frame.
type estimateResponse struct {
	Poses []repcount.Pose `json:"poses"`
	Error string          `json:"error,omitempty"`
}

type poseClient struct {
	url  string
	log  *logrus.Logger
	conn *websocket.Conn
	stop chan struct{}
	mu   sync.Mutex

	// frameMu keeps one frame in flight so replies pair with requests.
	frameMu sync.Mutex

	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewPoseEstimatorClient(log *logrus.Logger) IPoseEstimator {
	url := os.Getenv("POSE_MODEL_WS_URL")
	if url == "" {
		url = defaultPoseModelURL
	}

	client := newPoseClient(url, log)
	go client.connectInBackground()

	return client
}

func newPoseClient(url string, log *logrus.Logger) *poseClient {
	return &poseClient{
		url:          url,
		log:          log,
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}
}

func (c *poseClient) connectInBackground() {
	if err := c.Reconnect(); err != nil {
		c.log.WithFields(logrus.Fields{
			"url":   c.url,
			"error": err.Error(),
		}).Warn("Initial connection to pose model failed, will retry on demand")
		return
	}
	c.log.WithField("url", c.url).Info("Connected to pose model service")
}

func (c *poseClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *poseClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout)); err != nil {
			c.log.WithError(err).Warn("Error sending pong to pose model")
		}
		return nil
	})

	c.conn = conn
	c.stop = make(chan struct{})
	go c.keepAlive(conn, c.stop)

	return nil
}

func (c *poseClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *poseClient) closeLocked() {
	if c.conn == nil {
		return
	}
	close(c.stop)
	c.conn.Close()
	c.conn = nil
}

func (c *poseClient) keepAlive(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout)); err != nil {
			c.log.WithError(err).Warn("Ping to pose model failed, dropping connection")
			c.closeLocked()
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
	}
}

func (c *poseClient) connection() (*websocket.Conn, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		return conn, nil
	}

	if err := c.Reconnect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	return c.conn, nil
}

// drop forgets conn after an I/O failure so the next frame redials.
func (c *poseClient) drop(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == conn {
		c.closeLocked()
		return
	}
	conn.Close()
}

func (c *poseClient) EstimatePose(frame []byte) (*repcount.Pose, error) {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()

	conn, err := c.connection()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	err = conn.WriteMessage(websocket.BinaryMessage, frame)
	c.mu.Unlock()
	if err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("error sending frame: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("error reading pose reply: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	var res estimateResponse
	if err := jsoniter.Unmarshal(message, &res); err != nil {
		return nil, fmt.Errorf("error unmarshaling pose reply: %w", err)
	}
	if res.Error != "" {
		return nil, fmt.Errorf("pose model: %s", res.Error)
	}

	c.log.WithFields(logrus.Fields{
		"frame_bytes": len(frame),
		"poses":       len(res.Poses),
	}).Debug("Pose model reply")

	return bestPose(res.Poses), nil
}

// bestPose picks the highest scoring pose. The app tracks a single athlete.
func bestPose(poses []repcount.Pose) *repcount.Pose {
	var best *repcount.Pose
	for i := range poses {
		if poses[i].Empty() {
			continue
		}
		if best == nil || poses[i].Score > best.Score {
			best = &poses[i]
		}
	}
	return best
}
