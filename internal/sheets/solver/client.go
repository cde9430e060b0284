package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"frame-sketch/internal/engine/model"
)

// ============================================================
// Solver Client
// ============================================================

var ErrUpstream = errors.New("solver upstream error")

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	unitSystem string
	http       *http.Client
}

func New(baseURL, unitSystem string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		unitSystem: unitSystem,
		http:       &http.Client{Timeout: defaultTimeout},
	}
}

type request struct {
	model.Model
	UnitSystem string `json:"unit_system"`
}

// Result — ответ решателя. Ключи — id узлов модели.
type Result struct {
	Displacements map[string]Vector `json:"displacements"`
	Reactions     map[string]Vector `json:"reactions"`
	Issues        []string          `json:"issues"`
}

// Solve отправляет модель решателю. Ответ без карт дополняется пустыми значениями.
func (c *Client) Solve(ctx context.Context, m model.Model) (*Result, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("solver url is empty")
	}

	payload, err := json.Marshal(request{Model: m, UnitSystem: c.unitSystem})
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/solve", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[SOLVER] Error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	if resp.StatusCode >= 300 {
		log.Printf("[SOLVER] status %d: %s", resp.StatusCode, string(data))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if res.Displacements == nil {
		res.Displacements = map[string]Vector{}
	}
	if res.Reactions == nil {
		res.Reactions = map[string]Vector{}
	}
	if res.Issues == nil {
		res.Issues = []string{}
	}
	return &res, nil
}

// ============================================================
// Vector
// ============================================================

// Vector — тройка (ux, uy, rz) или (fx, fy, mz). Решатель присылает ее
// либо массивом, либо объектом с именованными компонентами.
type Vector [3]float64

var vectorKeys = [][3]string{
	{"ux", "uy", "rz"},
	{"fx", "fy", "mz"},
}

func (v *Vector) UnmarshalJSON(data []byte) error {
	var list []float64
	if err := json.Unmarshal(data, &list); err == nil {
		copy(v[:], list)
		return nil
	}

	var obj map[string]float64
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("vector: %w", err)
	}
	for _, keys := range vectorKeys {
		for i, k := range keys {
			if val, ok := obj[k]; ok {
				v[i] = val
			}
		}
	}
	return nil
}
