package states

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/splinetrack/internal/engine/camera"
	"github.com/Faultbox/splinetrack/internal/engine/gpu"
	"github.com/Faultbox/splinetrack/internal/engine/input"
	"github.com/Faultbox/splinetrack/internal/engine/renderer"
	"github.com/Faultbox/splinetrack/internal/engine/texture"
	"github.com/Faultbox/splinetrack/internal/logger"
	"github.com/Faultbox/splinetrack/pkg/math"
	"github.com/Faultbox/splinetrack/pkg/primitives"
	"github.com/Faultbox/splinetrack/pkg/track"
)

// Painter binds shader state before the track renderer draws.
type Painter interface {
	UseSurface(viewProj math.Mat4, s renderer.Surface)
	UseLines(viewProj math.Mat4, tint [3]float32, pointSize float32)
	SetWireframe(on bool)
}

// DriveConfig contains configuration for the drive state.
type DriveConfig struct {
	Speed        float32 // world units per second
	WidthStep    float32 // half-width change per key press
	MaxHalfWidth float32
	FrameStep    int // centreline points between drawn frames
	ShowFrames   bool
	ShowBounds   bool
	Wireframe    bool
	Follow       bool // start in the track-riding camera

	Projection    camera.Projection
	OrbitDistance float32
	FollowHeight  float32
	Lookahead     float32

	TrackColor  [3]float32
	MarkerColor [3]float32
	MarkerSize  float32
	Texture     *texture.Texture
	TexRepeat   float32
}

// DefaultDriveConfig returns drive settings matching the default config file.
func DefaultDriveConfig() DriveConfig {
	return DriveConfig{
		Speed:         40,
		WidthStep:     1,
		MaxHalfWidth:  50,
		FrameStep:     10,
		Projection:    camera.Projection{FOV: 60, Near: 0.1, Far: 2000},
		OrbitDistance: 250,
		FollowHeight:  4,
		Lookahead:     5,
		TrackColor:    [3]float32{0.55, 0.55, 0.6},
		MarkerColor:   [3]float32{0.9, 0.2, 0.2},
		MarkerSize:    2,
		TexRepeat:     50,
	}
}

// DriveState moves a marker around the finished track at constant speed
// and draws the track, its edges and the marker.
type DriveState struct {
	config  DriveConfig
	builder *track.Builder
	dev     gpu.Device
	painter Painter
	track   *renderer.TrackRenderer
	marker  gpu.Buffer
	log     *zap.Logger

	orbit     *camera.OrbitCamera
	follow    *camera.FollowCamera
	following bool
	aspect    float32

	distance float32
	lap      int
	onLap    func(lap int)
}

// NewDriveState creates a drive state over a fully built track.
func NewDriveState(cfg DriveConfig, b *track.Builder, dev gpu.Device, painter Painter, aspect float32) *DriveState {
	return &DriveState{
		config:    cfg,
		builder:   b,
		dev:       dev,
		painter:   painter,
		track:     renderer.NewTrackRenderer(dev, b),
		log:       logger.Named("drive"),
		orbit:     camera.NewOrbitCamera(cfg.OrbitDistance),
		follow:    camera.NewFollowCamera(cfg.FollowHeight, cfg.Lookahead),
		following: cfg.Follow,
		aspect:    aspect,
	}
}

// Enter uploads the track and marker.
func (s *DriveState) Enter() error {
	if err := s.track.CreateAll(); err != nil {
		return fmt.Errorf("uploading track: %w", err)
	}
	if s.config.ShowFrames {
		if err := s.track.CreateFrames(s.config.FrameStep); err != nil {
			return fmt.Errorf("uploading frames: %w", err)
		}
	}
	if s.config.ShowBounds {
		if err := s.track.CreateBounds(); err != nil {
			return fmt.Errorf("uploading bounds: %w", err)
		}
	}

	marker, err := s.dev.NewBuffer(gpu.LayoutPositionTexNormal, track.Pack(primitives.Sphere(16, 12)))
	if err != nil {
		s.track.Release()
		return fmt.Errorf("uploading marker: %w", err)
	}
	s.marker = marker

	s.orbit.FitToPoints(s.builder.Centreline())
	s.follow.Update(s.builder, s.distance)

	s.log.Info("entering DriveState",
		zap.Int("samples", len(s.builder.Centreline())),
		zap.Float32("total_length", s.builder.TotalLength()),
		zap.Float32("half_width", s.builder.HalfWidth()),
		zap.Float32("speed", s.config.Speed),
	)
	return nil
}

// Exit releases GPU buffers.
func (s *DriveState) Exit() error {
	s.track.Release()
	if s.marker != nil {
		s.marker.Release()
		s.marker = nil
	}
	return nil
}

// Update advances the marker and the cameras.
func (s *DriveState) Update(dt float64) error {
	s.distance += s.config.Speed * float32(dt)

	if lap := s.builder.CurrentLap(s.distance); lap != s.lap {
		s.log.Info("lap completed",
			zap.Int("lap", lap),
			zap.Float32("distance", s.distance),
		)
		s.lap = lap
		if s.onLap != nil {
			s.onLap(lap)
		}
	}

	if !s.follow.Update(s.builder, s.distance) {
		s.log.Warn("no track frame at distance", zap.Float32("distance", s.distance))
	}
	if !s.following {
		s.orbit.Update(float32(dt))
	}
	return nil
}

// HandleInput processes key toggles, zoom and resize.
func (s *DriveState) HandleInput(event input.Event) error {
	switch event.Type {
	case input.EventWindowResize:
		if event.Height > 0 {
			s.aspect = float32(event.Width) / float32(event.Height)
		}
	case input.EventMouseWheel:
		s.orbit.HandleZoom(float32(event.Wheel))
	case input.EventKeyDown:
		return s.handleKey(event.Key)
	}
	return nil
}

func (s *DriveState) handleKey(key sdl.Scancode) error {
	switch key {
	case sdl.SCANCODE_C:
		s.following = !s.following
		s.log.Debug("camera toggled", zap.Bool("follow", s.following))
	case sdl.SCANCODE_LEFTBRACKET:
		return s.setHalfWidth(s.builder.HalfWidth() - s.config.WidthStep)
	case sdl.SCANCODE_RIGHTBRACKET:
		return s.setHalfWidth(s.builder.HalfWidth() + s.config.WidthStep)
	case sdl.SCANCODE_F:
		if s.config.ShowFrames {
			s.config.ShowFrames = false
			return nil
		}
		if !s.track.HasFrames() {
			if err := s.track.CreateFrames(s.config.FrameStep); err != nil {
				return err
			}
		}
		s.config.ShowFrames = true
	case sdl.SCANCODE_B:
		if s.config.ShowBounds {
			s.config.ShowBounds = false
			return nil
		}
		if !s.track.HasBounds() {
			if err := s.track.CreateBounds(); err != nil {
				return err
			}
		}
		s.config.ShowBounds = true
	case sdl.SCANCODE_W:
		s.config.Wireframe = !s.config.Wireframe
	}
	return nil
}

// setHalfWidth clamps w and rebuilds the offset curves and mesh.
func (s *DriveState) setHalfWidth(w float32) error {
	w = math32.Max(0, math32.Min(s.config.MaxHalfWidth, w))
	if w == s.builder.HalfWidth() {
		return nil
	}
	if err := s.track.Rebuild(w); err != nil {
		return fmt.Errorf("resizing track: %w", err)
	}
	s.log.Info("track width changed", zap.Float32("half_width", w))
	return nil
}

// Render draws the track surface, the line views and the marker.
func (s *DriveState) Render() error {
	var view math.Mat4
	if s.following {
		view = s.follow.ViewMatrix()
	} else {
		view = s.orbit.ViewMatrix()
	}
	viewProj := s.config.Projection.Matrix(s.aspect).Mul(view)

	s.painter.SetWireframe(s.config.Wireframe)
	s.painter.UseSurface(viewProj, renderer.Surface{
		Model:     math.Identity(),
		Color:     s.config.TrackColor,
		Texture:   s.config.Texture,
		TexRepeat: s.config.TexRepeat,
	})
	s.track.RenderTrack()
	s.painter.SetWireframe(false)

	s.painter.UseLines(viewProj, [3]float32{1, 1, 1}, 4)
	s.track.RenderCentreline()
	s.track.RenderOffsetCurves()
	if s.config.ShowFrames && s.track.HasFrames() {
		s.track.RenderFrames()
	}
	if s.config.ShowBounds && s.track.HasBounds() {
		s.track.RenderBounds()
	}

	// The marker is hidden under the eye in the follow view.
	if !s.following {
		s.painter.UseSurface(viewProj, renderer.Surface{
			Model: s.MarkerModel(),
			Color: s.config.MarkerColor,
		})
		s.marker.Draw(gpu.Triangles, 0, s.marker.Count())
	}
	return nil
}

// MarkerModel places the marker sphere on the track surface at the current distance.
func (s *DriveState) MarkerModel() math.Mat4 {
	f, ok := s.follow.Frame()
	if !ok {
		return math.Identity()
	}
	size := s.config.MarkerSize
	origin := f.Position.Add(f.Binormal.Scale(size))
	return math.Basis(f.Normal, f.Binormal, f.Tangent.Neg(), origin).Mul(math.Scale(size, size, size))
}

// OnLap registers fn to run whenever the lap number changes.
func (s *DriveState) OnLap(fn func(lap int)) { s.onLap = fn }

// ShowingBounds reports whether the bounding box is drawn.
func (s *DriveState) ShowingBounds() bool { return s.config.ShowBounds }

// Distance returns the distance travelled so far.
func (s *DriveState) Distance() float32 { return s.distance }

// Lap returns the current lap number, starting at 0.
func (s *DriveState) Lap() int { return s.lap }

// Following reports whether the track-riding camera is active.
func (s *DriveState) Following() bool { return s.following }
