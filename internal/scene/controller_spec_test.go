package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/physics"
)

const frame = 1.0 / 60

func mustController(cfg *config.Config) *Controller {
	c, err := New(cfg, nil)
	Expect(err).NotTo(HaveOccurred())
	return c
}

func run(c *Controller, frames int) {
	for i := 0; i < frames; i++ {
		c.Update(frame)
	}
}

var _ = Describe("Controller", func() {
	var c *Controller

	BeforeEach(func() {
		c = mustController(config.GetPreset("drop"))
	})

	Describe("frame input that has no effect", func() {
		It("leaves every transform bit-identical for Update(0)", func() {
			run(c, 10)
			before := c.Snapshot()
			c.Update(0)
			Expect(c.Snapshot()).To(Equal(before))
		})

		It("ignores negative and non-finite frame times", func() {
			before := c.Snapshot()
			for _, dt := range []float64{-frame, math.NaN(), math.Inf(1), math.Inf(-1)} {
				c.Update(dt)
			}
			Expect(c.Snapshot()).To(Equal(before))
		})

		It("leaves the camera untouched for UpdateCamera(0,0,0)", func() {
			before := c.Snapshot()
			c.UpdateCamera(0, 0, 0)
			Expect(c.Snapshot()).To(Equal(before))
		})

		It("zeroes non-finite camera deltas", func() {
			before := c.CameraTransform()
			c.UpdateCamera(math.NaN(), math.Inf(1), math.Inf(-1))
			Expect(c.CameraTransform()).To(Equal(before))
		})
	})

	It("returns the same camera transform on repeated reads", func() {
		c.UpdateCamera(12, -4, 0.5)
		Expect(c.CameraTransform()).To(Equal(c.CameraTransform()))
	})

	It("lets the sphere fall monotonically until it nears the ground", func() {
		r := c.Config().Sphere.Radius
		last := c.SphereTransform().Position.Y()
		for i := 0; i < 120; i++ {
			c.Update(frame)
			y := c.SphereTransform().Position.Y()
			if y-r < 0.2 {
				return
			}
			Expect(y).To(BeNumerically("<", last))
			last = y
		}
		Fail("sphere never reached the ground")
	})

	It("brings a dropped sphere to rest on the ground", func() {
		r := c.Config().Sphere.Radius
		run(c, 300)

		s := c.Snapshot()
		Expect(s.Sphere.Position.Y() - r).To(BeNumerically("~", 0, 1e-4))
		Expect(s.SphereSpeed).To(BeNumerically("<", 1e-3))
		Expect(s.Time).To(BeNumerically("~", 5, 1e-9))
	})

	It("changes the trajectory when a force is applied", func() {
		other := mustController(config.GetPreset("drop"))

		c.ApplyForce()
		c.Update(frame)
		other.Update(frame)

		Expect(c.SphereTransform()).NotTo(Equal(other.SphereTransform()))
		Expect(c.SphereTransform().Position.Y()).To(BeNumerically(">", other.SphereTransform().Position.Y()))
	})

	It("stacks repeated forces", func() {
		once := mustController(config.GetPreset("drop"))
		once.ApplyForce()
		c.ApplyForce()
		c.ApplyForce()

		c.Update(frame)
		once.Update(frame)
		Expect(c.Snapshot().SphereSpeed).To(BeNumerically(">", once.Snapshot().SphereSpeed))
	})

	It("separates a sphere that starts inside the cube", func() {
		cfg := config.DefaultConfig()
		cfg.Sphere.Position = config.Vec{0.1, 0.9, 0}
		c = mustController(cfg)

		c.Update(frame)
		sphere, err := c.World().Body(c.SphereHandle())
		Expect(err).NotTo(HaveOccurred())
		cube, err := c.World().Body(c.CubeHandle())
		Expect(err).NotTo(HaveOccurred())
		Expect(physics.SignedDistance(sphere, cube)).To(BeNumerically(">=", -1e-6))
	})

	Context("with a static cube", func() {
		BeforeEach(func() {
			c = mustController(config.GetPreset("static_cube"))
		})

		It("never moves the cube", func() {
			before := c.CubeTransform()
			Expect(c.ApplyImpulse(c.CubeHandle(), mgl64.Vec3{100, 100, 100})).To(Succeed())
			for _, dt := range []float64{0, frame, 1, 1e6} {
				c.Update(dt)
			}
			run(c, 200)
			Expect(c.CubeTransform()).To(Equal(before))
		})
	})

	It("restores the camera after opposite rotations", func() {
		before := c.CameraTransform()
		c.RotateCamera(90, 0)
		c.RotateCamera(-90, 0)
		after := c.CameraTransform()
		Expect(after.Position).To(Equal(before.Position))
		Expect(math.Abs(after.Orientation.W - before.Orientation.W)).To(BeNumerically("<=", 1e-12))
		Expect(after.Orientation.V.Sub(before.Orientation.V).Len()).To(BeNumerically("<=", 1e-12))
	})
})
