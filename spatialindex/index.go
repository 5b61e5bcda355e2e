package spatialindex

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/sargonas/stellar-router/diagnostics"
	"github.com/sargonas/stellar-router/graph"
	"github.com/sargonas/stellar-router/routeerr"
	"github.com/sargonas/stellar-router/starmap"
)

var indexLog = diagnostics.WithComponent("spatialindex")

// Index is a precomputed KD-tree over every positioned system in a
// Starmap, serializable to the EFSI binary format for fast reload.
type Index struct {
	nodes     []IndexNode
	tree      *kdTree
	idByIndex []starmap.SystemId
	indexByID map[starmap.SystemId]int

	// Metadata is nil for a plain (legacy) index and non-nil for one
	// built with BuildWithMetadata, whose on-disk form carries flags
	// bit 1 so VerifyFreshness can classify it without guessing.
	Metadata *DatasetMetadata
}

// Build indexes every positioned system in sm. Systems without a
// position are skipped entirely; they never participate in spatial
// queries.
func Build(sm *starmap.Starmap) *Index {
	nodes := make([]IndexNode, 0, len(sm.Systems))
	indexByID := make(map[starmap.SystemId]int)

	for _, sys := range sm.Systems {
		if sys.Position == nil {
			continue
		}
		var temp *float32
		if sys.Metadata.MinExternalTemp != nil {
			t := float32(*sys.Metadata.MinExternalTemp)
			temp = &t
		}
		node := IndexNode{
			SystemID: sys.ID,
			Coords: [3]float32{
				float32(sys.Position.X),
				float32(sys.Position.Y),
				float32(sys.Position.Z),
			},
			MinExternalTemp: temp,
		}
		indexByID[sys.ID] = len(nodes)
		nodes = append(nodes, node)
	}

	idx := &Index{
		nodes:     nodes,
		tree:      buildKDTree(nodes),
		indexByID: indexByID,
	}
	idx.idByIndex = make([]starmap.SystemId, len(nodes))
	for id, i := range indexByID {
		idx.idByIndex[i] = id
	}

	indexLog.Info("built spatial index nodes=%d systems_with_temp=%d", len(nodes), countWithTemp(nodes))
	return idx
}

// BuildWithMetadata builds an index exactly as Build does, additionally
// embedding a DatasetMetadata fingerprint so VerifyFreshness can later
// detect whether the dataset backing it has changed.
func BuildWithMetadata(sm *starmap.Starmap, metadata DatasetMetadata) *Index {
	idx := Build(sm)
	idx.Metadata = &metadata
	return idx
}

func countWithTemp(nodes []IndexNode) int {
	n := 0
	for _, node := range nodes {
		if node.MinExternalTemp != nil {
			n++
		}
	}
	return n
}

// Len reports how many systems are indexed.
func (idx *Index) Len() int { return len(idx.nodes) }

// IsEmpty reports whether the index holds no systems.
func (idx *Index) IsEmpty() bool { return len(idx.nodes) == 0 }

// Temperature returns a system's indexed minimum external temperature.
// The second return is false if the system is not indexed at all (as
// opposed to indexed with an unknown temperature, where ok is true and
// the pointer is nil).
func (idx *Index) Temperature(id starmap.SystemId) (*float32, bool) {
	i, ok := idx.indexByID[id]
	if !ok {
		return nil, false
	}
	return idx.nodes[i].MinExternalTemp, true
}

func toF32Point(p starmap.SystemPosition) [3]float32 {
	return [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
}

// Nearest returns the k nearest indexed systems to pos, sorted
// ascending by distance. Satisfies graph.SpatialNeighbors.
func (idx *Index) Nearest(pos starmap.SystemPosition, k int) []graph.NeighborResult {
	cands := idx.tree.nearestN(toF32Point(pos), k)
	out := make([]graph.NeighborResult, len(cands))
	for i, c := range cands {
		out[i] = graph.NeighborResult{ID: idx.idByIndex[c.idx], Distance: math.Sqrt(float64(c.distSq))}
	}
	return out
}

// WithinRadius returns every indexed system within radius light-years
// of point, sorted ascending by distance.
func (idx *Index) WithinRadius(point [3]float64, radius float64) []Neighbor {
	if radius <= 0 || idx.IsEmpty() {
		return nil
	}
	qp := [3]float32{float32(point[0]), float32(point[1]), float32(point[2])}
	radiusSq := float32(radius * radius)
	cands := idx.tree.withinRadius(qp, radiusSq)
	out := make([]Neighbor, len(cands))
	for i, c := range cands {
		out[i] = Neighbor{SystemID: idx.idByIndex[c.idx], Distance: math.Sqrt(float64(c.distSq))}
	}
	sortNeighbors(out)
	return out
}

// NearestFiltered finds up to query.K nearest systems to point subject
// to query's radius and temperature constraints. It over-fetches
// candidates (max(2k, k+10)) from the tree to absorb filtering losses,
// exactly as the dataset-preparation tool this index format was
// designed for does.
func (idx *Index) NearestFiltered(point [3]float64, query Query) []Neighbor {
	if query.K <= 0 || idx.IsEmpty() {
		return nil
	}
	fetch := query.K * 2
	if query.K+10 > fetch {
		fetch = query.K + 10
	}
	qp := [3]float32{float32(point[0]), float32(point[1]), float32(point[2])}
	cands := idx.tree.nearestN(qp, fetch)

	results := make([]Neighbor, 0, query.K)
	for _, c := range cands {
		dist := math.Sqrt(float64(c.distSq))
		if query.Radius != nil && dist > *query.Radius {
			continue
		}
		if query.MaxTemperature != nil {
			if temp := idx.nodes[c.idx].MinExternalTemp; temp != nil && float64(*temp) > *query.MaxTemperature {
				continue
			}
		}
		results = append(results, Neighbor{SystemID: idx.idByIndex[c.idx], Distance: dist})
		if len(results) >= query.K {
			break
		}
	}
	return results
}

// WithinRadiusFiltered returns every indexed system within radius
// light-years of point whose temperature passes maxTemperature
// (fail-open: unknown temperatures always pass), sorted ascending by
// distance.
func (idx *Index) WithinRadiusFiltered(point [3]float64, radius float64, maxTemperature *float64) []Neighbor {
	if radius <= 0 || idx.IsEmpty() {
		return nil
	}
	qp := [3]float32{float32(point[0]), float32(point[1]), float32(point[2])}
	radiusSq := float32(radius * radius)
	cands := idx.tree.withinRadius(qp, radiusSq)

	results := make([]Neighbor, 0, len(cands))
	for _, c := range cands {
		if maxTemperature != nil {
			if temp := idx.nodes[c.idx].MinExternalTemp; temp != nil && float64(*temp) > *maxTemperature {
				continue
			}
		}
		results = append(results, Neighbor{SystemID: idx.idByIndex[c.idx], Distance: math.Sqrt(float64(c.distSq))})
	}
	sortNeighbors(results)
	return results
}

func sortNeighbors(ns []Neighbor) {
	for i := 1; i < len(ns); i++ {
		for j := i; j > 0 && ns[j].Distance < ns[j-1].Distance; j-- {
			ns[j], ns[j-1] = ns[j-1], ns[j]
		}
	}
}

// Save serializes the index to path in the EFSI v1 format: a 16-byte
// header, a zstd-compressed body of fixed-width node records (preceded by
// an encoded DatasetMetadata block when Metadata is set), and a trailing
// SHA-256 checksum of the compressed body.
func (idx *Index) Save(path string) error {
	body := encodeMetadata(idx.Metadata)
	body = append(body, encodeNodes(idx.nodes)...)

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
	if err != nil {
		return routeerr.SpatialIndexSerialize(path, "zstd encoder: "+err.Error())
	}
	compressed := enc.EncodeAll(body, nil)
	_ = enc.Close()

	sum := sha256.Sum256(compressed)

	hasTemp := false
	for _, n := range idx.nodes {
		if n.MinExternalTemp != nil {
			hasTemp = true
			break
		}
	}
	var flags uint8
	if hasTemp {
		flags |= flagHasTemperature
	}
	if idx.Metadata != nil {
		flags |= flagHasMetadata
	}

	var header [headerSize]byte
	copy(header[0:4], indexMagic)
	header[4] = indexVersion
	header[5] = flags
	binary.LittleEndian.PutUint32(header[6:10], uint32(len(idx.nodes)))

	f, err := os.Create(path)
	if err != nil {
		return routeerr.SpatialIndexSerialize(path, err.Error())
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := w.Write(header[:]); err != nil {
		return routeerr.SpatialIndexSerialize(path, err.Error())
	}
	if _, err := w.Write(compressed); err != nil {
		return routeerr.SpatialIndexSerialize(path, err.Error())
	}
	if _, err := w.Write(sum[:]); err != nil {
		return routeerr.SpatialIndexSerialize(path, err.Error())
	}
	if err := w.Flush(); err != nil {
		return routeerr.SpatialIndexSerialize(path, err.Error())
	}

	indexLog.Info("saved spatial index path=%s nodes=%d compressed_bytes=%d", path, len(idx.nodes), len(compressed))
	return nil
}

// Load reads an index previously written by Save, validating the magic
// bytes, version, and checksum.
func Load(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, routeerr.SpatialIndexLoad(path, err.Error())
	}
	if len(raw) < headerSize+checksumSize {
		return nil, routeerr.SpatialIndexLoad(path, "file too small to contain a valid header and checksum")
	}

	header := raw[:headerSize]
	if string(header[0:4]) != indexMagic {
		return nil, routeerr.SpatialIndexLoad(path, "invalid magic bytes")
	}
	if header[4] != indexVersion {
		return nil, routeerr.SpatialIndexLoad(path, "unsupported index version")
	}
	flags := header[5]
	nodeCount := binary.LittleEndian.Uint32(header[6:10])

	compressed := raw[headerSize : len(raw)-checksumSize]
	storedSum := raw[len(raw)-checksumSize:]
	computedSum := sha256.Sum256(compressed)
	if !bytes.Equal(computedSum[:], storedSum) {
		return nil, routeerr.SpatialIndexLoad(path, "checksum mismatch - file may be corrupted")
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, routeerr.SpatialIndexLoad(path, "zstd decoder: "+err.Error())
	}
	defer dec.Close()
	body, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, routeerr.SpatialIndexLoad(path, "zstd decompression failed: "+err.Error())
	}

	var metadata *DatasetMetadata
	if flags&flagHasMetadata != 0 {
		var n int
		metadata, n, err = decodeMetadata(body)
		if err != nil {
			return nil, routeerr.SpatialIndexLoad(path, "metadata decode: "+err.Error())
		}
		body = body[n:]
	}

	nodes, err := decodeNodes(body)
	if err != nil {
		return nil, routeerr.SpatialIndexLoad(path, err.Error())
	}
	if uint32(len(nodes)) != nodeCount {
		indexLog.Warn("node count mismatch in spatial index expected=%d actual=%d", nodeCount, len(nodes))
	}

	idx := &Index{nodes: nodes, tree: buildKDTree(nodes), indexByID: make(map[starmap.SystemId]int), Metadata: metadata}
	idx.idByIndex = make([]starmap.SystemId, len(nodes))
	for i, n := range nodes {
		idx.indexByID[n.SystemID] = i
		idx.idByIndex[i] = n.SystemID
	}

	indexLog.Info("loaded spatial index path=%s nodes=%d systems_with_temp=%d", path, len(nodes), countWithTemp(nodes))
	return idx, nil
}

// nodeRecordSize is the fixed width of one encoded IndexNode: an 8-byte
// system id, three 4-byte coordinates, a 1-byte has-temperature flag,
// and a 4-byte temperature value (ignored when the flag is 0).
const nodeRecordSize = 8 + 4*3 + 1 + 4

// encodeMetadata encodes an optional DatasetMetadata block: the 32-byte
// checksum, a presence byte plus length-prefixed release tag, and an
// 8-byte little-endian build timestamp. Returns nil when metadata is
// nil, so callers can unconditionally append it ahead of the node body.
func encodeMetadata(metadata *DatasetMetadata) []byte {
	if metadata == nil {
		return nil
	}
	var tagBytes []byte
	hasTag := metadata.ReleaseTag != nil
	if hasTag {
		tagBytes = []byte(*metadata.ReleaseTag)
	}
	buf := make([]byte, 32+1+2+len(tagBytes)+8)
	copy(buf[0:32], metadata.Checksum[:])
	off := 32
	if hasTag {
		buf[off] = 1
	}
	off++
	binary.LittleEndian.PutUint16(buf[off:off+2], uint16(len(tagBytes)))
	off += 2
	copy(buf[off:off+len(tagBytes)], tagBytes)
	off += len(tagBytes)
	binary.LittleEndian.PutUint64(buf[off:off+8], uint64(metadata.BuildTimestamp))
	return buf
}

// decodeMetadata reverses encodeMetadata, returning the decoded metadata
// and the number of bytes it consumed from buf.
func decodeMetadata(buf []byte) (*DatasetMetadata, int, error) {
	if len(buf) < 32+1+2 {
		return nil, 0, io.ErrUnexpectedEOF
	}
	var m DatasetMetadata
	copy(m.Checksum[:], buf[0:32])
	off := 32
	hasTag := buf[off] == 1
	off++
	tagLen := int(binary.LittleEndian.Uint16(buf[off : off+2]))
	off += 2
	if len(buf) < off+tagLen+8 {
		return nil, 0, io.ErrUnexpectedEOF
	}
	if hasTag {
		tag := string(buf[off : off+tagLen])
		m.ReleaseTag = &tag
	}
	off += tagLen
	m.BuildTimestamp = int64(binary.LittleEndian.Uint64(buf[off : off+8]))
	off += 8
	return &m, off, nil
}

func encodeNodes(nodes []IndexNode) []byte {
	buf := make([]byte, 4+len(nodes)*nodeRecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(nodes)))
	off := 4
	for _, n := range nodes {
		binary.LittleEndian.PutUint64(buf[off:off+8], uint64(n.SystemID))
		off += 8
		for _, c := range n.Coords {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(c))
			off += 4
		}
		if n.MinExternalTemp != nil {
			buf[off] = 1
			binary.LittleEndian.PutUint32(buf[off+1:off+5], math.Float32bits(*n.MinExternalTemp))
		}
		off += 1 + 4
	}
	return buf
}

func decodeNodes(buf []byte) ([]IndexNode, error) {
	if len(buf) < 4 {
		return nil, io.ErrUnexpectedEOF
	}
	count := binary.LittleEndian.Uint32(buf[0:4])
	off := 4
	nodes := make([]IndexNode, 0, count)
	for i := uint32(0); i < count; i++ {
		if off+nodeRecordSize > len(buf) {
			return nil, io.ErrUnexpectedEOF
		}
		var n IndexNode
		n.SystemID = starmap.SystemId(binary.LittleEndian.Uint64(buf[off : off+8]))
		off += 8
		for c := 0; c < 3; c++ {
			n.Coords[c] = math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
			off += 4
		}
		hasTemp := buf[off]
		temp := math.Float32frombits(binary.LittleEndian.Uint32(buf[off+1 : off+5]))
		off += 1 + 4
		if hasTemp == 1 {
			n.MinExternalTemp = &temp
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
