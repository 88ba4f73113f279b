package repoanalysis

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxChunkBytes bounds one chunk, headers and footers included.
const DefaultMaxChunkBytes = 300000

var sourceSuffixes = []string{
	".py", ".js", ".ts", ".java", ".go", ".rb", ".php", ".cs", ".c", ".cpp", ".h", ".hpp",
	"Dockerfile", "docker-compose.yml", ".txt",
}

// IsSourceFile reports whether path ends with one of the analyzed suffixes.
func IsSourceFile(path string) bool {
	for _, s := range sourceSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// SourceFile is a fetched file.
type SourceFile struct {
	Path    string
	Content string
}

// Chunk is a concatenation of wrapped files no larger than the chunk limit.
type Chunk struct {
	Content string
	Paths   []string
}

// Size is the UTF-8 byte length of the chunk.
func (c Chunk) Size() int {
	return len(c.Content)
}

// WrapFile surrounds content with the start and end markers for path.
func WrapFile(path, content string) string {
	return "--- START OF FILE: " + path + " ---\n" + content + "\n--- END OF FILE: " + path + " ---\n\n"
}

// PackChunks packs files greedily, in input order, into chunks of at most maxBytes.
// Empty files are skipped. A file whose wrapped form alone exceeds maxBytes is skipped
// and logged.
func PackChunks(files []SourceFile, maxBytes int, log *zap.Logger) []Chunk {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxChunkBytes
	}
	if log == nil {
		log = zap.NewNop()
	}

	var (
		chunks []Chunk
		cur    strings.Builder
		paths  []string
	)
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		chunks = append(chunks, Chunk{Content: cur.String(), Paths: paths})
		cur.Reset()
		paths = nil
	}

	for _, f := range files {
		if f.Content == "" {
			continue
		}
		wrapped := WrapFile(f.Path, f.Content)
		if len(wrapped) > maxBytes {
			log.Warn("skipping file larger than chunk limit",
				zap.String("path", f.Path),
				zap.Int("bytes", len(wrapped)),
				zap.Int("limit", maxBytes),
			)
			continue
		}
		if cur.Len()+len(wrapped) > maxBytes {
			flush()
		}
		cur.WriteString(wrapped)
		paths = append(paths, f.Path)
	}
	flush()

	return chunks
}
