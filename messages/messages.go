// Package messages renders user-facing response text from jsonnet
// templates, keeping wording out of the request path.
package messages

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/google/go-jsonnet"
	"github.com/voiceguard/voiceguard/detection"
)

//go:embed jsonnet/*
var messages embed.FS

type MessageProvider struct {
	// The jsonnet VM carries TLA bindings between calls, so concurrent
	// handlers must not share it mid-evaluation.
	vmMu sync.Mutex
	vm   *jsonnet.VM
}

func NewMessageProvider() (*MessageProvider, error) {
	m := &MessageProvider{
		vm: jsonnet.MakeVM(),
	}

	imports := make(map[string]jsonnet.Contents)
	fs.WalkDir(messages, ".", func(path string, d fs.DirEntry, err error) error {
		if d != nil && !d.IsDir() {
			content, _ := messages.ReadFile(path)
			imports[strings.TrimPrefix(path, "jsonnet/")] = jsonnet.MakeContentsRaw(content)
		}
		return nil
	})

	m.vm.Importer(&jsonnet.MemoryImporter{
		Data: imports,
	})

	_, _, err := m.vm.ImportData("anonymous", "index.jsonnet")
	if err != nil {
		return nil, fmt.Errorf("importing index: %w", err)
	}

	return m, nil
}

func (m *MessageProvider) ExecuteMessage(messageName string, data any) (string, error) {
	m.vmMu.Lock()
	defer m.vmMu.Unlock()

	m.vm.TLAVar("message_key", messageName)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshaling data: %w", err)
	}
	m.vm.TLACode("data", string(jsonData))

	defer m.vm.TLAReset()

	jsonOut, err := m.vm.EvaluateAnonymousSnippet("anonymous", "function(message_key, data) (import 'index.jsonnet')[message_key](data)")
	if err != nil {
		return "", fmt.Errorf("evaluating jsonnet: %w", err)
	}

	return jsonOut, nil
}

type explanationContext struct {
	Indicators []string `json:"indicators"`
	Traits     []string `json:"traits"`
}

// RenderExplanation turns a classification result's indicators into the
// response's explanation sentence.
func (m *MessageProvider) RenderExplanation(result *detection.Result) (string, error) {
	messageName := "human_explanation"
	if result.Label == detection.LabelAIGenerated {
		messageName = "ai_explanation"
	}

	data := explanationContext{
		Indicators: result.Indicators,
		Traits:     result.Traits,
	}
	if data.Indicators == nil {
		data.Indicators = []string{}
	}
	if data.Traits == nil {
		data.Traits = []string{}
	}

	out, err := m.ExecuteMessage(messageName, data)
	if err != nil {
		return "", fmt.Errorf("executing message: %w", err)
	}

	var explanation string
	if err := json.Unmarshal([]byte(out), &explanation); err != nil {
		return "", fmt.Errorf("parsing rendered message: %w", err)
	}

	return explanation, nil
}
