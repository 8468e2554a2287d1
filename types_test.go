package fstruct

// Hand-written codecs shaped like generated ones, shared by the tests.

type Point3 struct {
	X, Y, Z float32
}

func (Point3) Schema() string   { return "float32 x;float32 y;float32 z;" }
func (Point3) TypeName() string { return "point3" }
func (Point3) Size() int        { return 12 }

func (p Point3) Pack(dst []byte) []byte {
	dst = AppendFloat32(dst, p.X)
	dst = AppendFloat32(dst, p.Y)
	return AppendFloat32(dst, p.Z)
}

func (p *Point3) Unpack(c *Cursor) error {
	b, err := c.Take(12)
	if err != nil {
		return err
	}
	p.X = Float32At(b, 0)
	p.Y = Float32At(b, 4)
	p.Z = Float32At(b, 8)
	return nil
}

type Tagged struct {
	P    Point3
	Flag int8
}

func (Tagged) Schema() string   { return "point3 p;int8 flag;" }
func (Tagged) TypeName() string { return "tagged" }
func (Tagged) Size() int        { return 13 }

func (t Tagged) Pack(dst []byte) []byte {
	dst = t.P.Pack(dst)
	return AppendInt8(dst, t.Flag)
}

func (t *Tagged) Unpack(c *Cursor) error {
	if err := t.P.Unpack(c); err != nil {
		return err
	}
	b, err := c.Take(1)
	if err != nil {
		return err
	}
	t.Flag = Int8At(b, 0)
	return nil
}

const telemetrySchema = `uint16 id;
bool armed;
enum {idle=0, run=1, fault=-1} int8 mode;
char name[8];
int32 samples[3];
double vel;
uint64 count;
point3 pose;
int16 temp;
uint32 seq;
int64 stamp;
uint8 level;`

type Telemetry struct {
	ID      uint16
	Armed   bool
	Mode    int8
	Name    string
	Samples [3]int32
	Vel     float64
	Count   uint64
	Pose    Point3
	Temp    int16
	Seq     uint32
	Stamp   int64
	Level   uint8
}

func (Telemetry) Schema() string   { return telemetrySchema }
func (Telemetry) TypeName() string { return "telemetry" }
func (Telemetry) Size() int        { return 67 }

func (t Telemetry) Pack(dst []byte) []byte {
	dst = AppendUint16(dst, t.ID)
	dst = AppendBool(dst, t.Armed)
	dst = AppendInt8(dst, t.Mode)
	dst = AppendChars(dst, t.Name, 8)
	for _, s := range t.Samples {
		dst = AppendInt32(dst, s)
	}
	dst = AppendFloat64(dst, t.Vel)
	dst = AppendUint64(dst, t.Count)
	dst = t.Pose.Pack(dst)
	dst = AppendInt16(dst, t.Temp)
	dst = AppendUint32(dst, t.Seq)
	dst = AppendInt64(dst, t.Stamp)
	return AppendUint8(dst, t.Level)
}

func (t *Telemetry) Unpack(c *Cursor) error {
	b, err := c.Take(67)
	if err != nil {
		return err
	}
	t.ID = Uint16At(b, 0)
	t.Armed = BoolAt(b, 2)
	t.Mode = Int8At(b, 3)
	t.Name = CharsAt(b, 4, 8)
	for i := range t.Samples {
		t.Samples[i] = Int32At(b, 12+4*i)
	}
	t.Vel = Float64At(b, 24)
	t.Count = Uint64At(b, 32)
	if err := t.Pose.Unpack(NewCursor(b[40:52])); err != nil {
		return err
	}
	t.Temp = Int16At(b, 52)
	t.Seq = Uint32At(b, 54)
	t.Stamp = Int64At(b, 58)
	t.Level = Uint8At(b, 66)
	return nil
}

// shortPacker claims 4 bytes but writes 3.
type shortPacker struct{}

func (shortPacker) Schema() string         { return "int32 v;" }
func (shortPacker) TypeName() string       { return "short_packer" }
func (shortPacker) Size() int              { return 4 }
func (shortPacker) Pack(dst []byte) []byte { return append(dst, 1, 2, 3) }

func init() {
	// Registered out of dependency order on purpose; Submit does not resolve.
	Submit[Telemetry]()
	Submit[Tagged]()
	Submit[Point3]()
}
