package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"hubnet/internal/buildinfo"
	"hubnet/internal/cost"
	"hubnet/internal/export"
	"hubnet/internal/loader"
	"hubnet/internal/metrics"
	"hubnet/internal/model"
	"hubnet/internal/network"
	"hubnet/internal/opt"
)

// NetworksHandler handles POST/GET /v1/networks
func (s *Server) NetworksHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in model.NetworkIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if in.TenantID == "" {
			_, in.TenantID = s.withTenant(r)
		}
		if err := validateNetworkIn(&in); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid network", err.Error(), r.URL.Path)
			return
		}
		var elements []model.ElementOut
		if in.CSV != "" {
			n, err := loader.LoadCSV(strings.NewReader(in.CSV), in.TransportRate)
			if err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid CSV", err.Error(), r.URL.Path)
				return
			}
			elements = model.SnapshotElements(n)
		} else {
			elements = model.ElementsIn(in.Elements)
			// reject structurally broken networks up front
			if _, err := s.buildFromElements(in.TransportRate, elements); err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid network", err.Error(), r.URL.Path)
				return
			}
		}
		nw, err := s.Store.CreateNetwork(r.Context(), in.TenantID, in, elements)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create network failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, nw)
	case http.MethodGet:
		_, tenant := s.withTenant(r)
		cursor := r.URL.Query().Get("cursor")
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		items, next, err := s.Store.ListNetworks(r.Context(), tenant, cursor, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List networks failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) buildFromElements(rate float64, elements []model.ElementOut) (*network.Network, error) {
	return model.BuildNetwork(model.NetworkOut{TransportRate: rate, Elements: elements})
}

// NetworkByIDHandler handles GET /v1/networks/{id} and GET /v1/networks/{id}/cost
func (s *Server) NetworkByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/networks/")
	if rest == r.URL.Path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, tenant := s.withTenant(r)
	nw, err := s.Store.GetNetwork(r.Context(), tenant, id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Network not found", err.Error(), r.URL.Path)
		return
	}
	if len(parts) > 1 && parts[1] == "cost" {
		n, err := model.BuildNetwork(nw)
		if err != nil {
			writeProblem(w, http.StatusUnprocessableEntity, "Network invalid", err.Error(), r.URL.Path)
			return
		}
		calc := cost.NewCalculator(nw.TransportRate)
		writeJSON(w, http.StatusOK, map[string]any{"networkId": nw.ID, "cost": calc.Evaluate(n)})
		return
	}
	writeJSON(w, http.StatusOK, nw)
}

// OptimizeHandler handles POST /v1/optimize
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.CanPlan() {
		writeProblem(w, 403, "Forbidden", "planner or admin required", r.URL.Path)
		return
	}
	var req model.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateOptimizeRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid optimize request", err.Error(), r.URL.Path)
		return
	}
	if req.TenantID == "" {
		_, req.TenantID = s.withTenant(r)
	}
	s.applyTenantDefaults(r.Context(), &req)

	nw, err := s.Store.GetNetwork(r.Context(), req.TenantID, req.NetworkID)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Network not found", err.Error(), r.URL.Path)
		return
	}
	run, err := s.runOptimization(r.Context(), nw, req)
	if err != nil {
		metrics.OptimizationRuns.WithLabelValues(algorithmOf(req), "error").Inc()
		writeProblem(w, http.StatusUnprocessableEntity, "Optimization failed", err.Error(), r.URL.Path)
		return
	}
	saved, err := s.Store.SaveRun(r.Context(), run)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save run failed", err.Error(), r.URL.Path)
		return
	}
	metrics.OptimizationRuns.WithLabelValues(saved.Algorithm, "ok").Inc()
	metrics.RunDuration.WithLabelValues(saved.Algorithm).Observe(float64(saved.ElapsedMs) / 1000)
	opt.RecordRun(req.TenantID, req.NetworkID, saved.Algorithm, saved.Result)
	s.Pub.Emit(r.Context(), req.TenantID, "run.completed", map[string]any{
		"runId":       saved.ID,
		"networkId":   saved.NetworkID,
		"algorithm":   saved.Algorithm,
		"initialCost": saved.Result.InitialCost,
		"finalCost":   saved.Result.FinalCost,
		"passes":      saved.Result.Passes,
	})
	s.Broker.Publish(runTopic(saved.TenantID, saved.ID), SSEEvent{Type: "run.completed", Data: map[string]any{
		"runId":     saved.ID,
		"finalCost": saved.Result.FinalCost,
	}})
	writeJSON(w, http.StatusOK, saved)
}

// runOptimization executes one strategy against a fresh network built from
// the stored record. Pass events stream to the broker as they happen.
func (s *Server) runOptimization(ctx context.Context, nw model.NetworkOut, req model.OptimizeRequest) (model.RunOut, error) {
	n, err := model.BuildNetwork(nw)
	if err != nil {
		return model.RunOut{}, err
	}
	calc := cost.NewCalculator(nw.TransportRate)
	before := calc.Evaluate(n)

	runID := uuid.New().String()
	algo := algorithmOf(req)
	onPass := func(pc opt.PassCost) {
		s.Broker.Publish(runTopic(nw.TenantID, runID), SSEEvent{Type: "run.pass", Data: map[string]any{
			"runId": runID, "pass": pc.Pass, "cost": pc.Cost,
		}})
	}

	var optimizer opt.Optimizer
	switch algo {
	case "genetic":
		g := opt.NewGenetic(n, calc, opt.GeneticConfig{
			PopulationSize: req.PopulationSize,
			Generations:    req.Generations,
			MutationRate:   req.MutationRate,
			CrossoverRate:  req.CrossoverRate,
			Seed:           req.Seed,
		})
		g.OnPass = onPass
		optimizer = g
	default:
		c := opt.NewCoordinate(n, calc, opt.CoordinateConfig{
			MaxPasses: req.MaxPasses,
			Tolerance: req.Tolerance,
			GridStep:  req.GridStep,
			Epsilon:   req.Epsilon,
		})
		c.OnPass = onPass
		optimizer = c
	}

	start := time.Now()
	result, err := optimizer.Optimize()
	if err != nil {
		return model.RunOut{}, err
	}
	elapsed := time.Since(start)
	after := calc.Evaluate(n)

	run := model.RunOut{
		ID:        runID,
		TenantID:  nw.TenantID,
		NetworkID: nw.ID,
		Algorithm: algo,
		Result:    result,
		Before:    before,
		After:     after,
		Elements:  model.SnapshotElements(n),
		ElapsedMs: elapsed.Milliseconds(),
	}
	if req.Export && s.Export != nil {
		dataset := req.Dataset
		if dataset == "" {
			dataset = nw.ID
		}
		path, err := s.Export.WriteRun(export.RunRow{
			Dataset:   dataset,
			Algorithm: algo,
			Params:    paramsLabel(req, algo),
			Before:    before,
			After:     after,
			Result:    result,
			Elapsed:   elapsed,
		})
		if err == nil {
			run.ExportPath = path
		}
	}
	return run, nil
}

func algorithmOf(req model.OptimizeRequest) string {
	if req.Algorithm == "" {
		return "coordinate"
	}
	return req.Algorithm
}

func paramsLabel(req model.OptimizeRequest, algo string) string {
	if algo == "genetic" {
		return fmt.Sprintf("pop=%d gen=%d mut=%g cx=%g seed=%d",
			req.PopulationSize, req.Generations, req.MutationRate, req.CrossoverRate, req.Seed)
	}
	return fmt.Sprintf("passes=%d tol=%g step=%g eps=%g",
		req.MaxPasses, req.Tolerance, req.GridStep, req.Epsilon)
}

// applyTenantDefaults fills zero-valued request parameters from the stored
// per-tenant optimizer config, if any.
func (s *Server) applyTenantDefaults(ctx context.Context, req *model.OptimizeRequest) {
	cfg, err := s.Store.GetOptimizerConfig(ctx, req.TenantID)
	if err != nil || cfg == nil {
		return
	}
	if req.Algorithm == "" {
		if v, ok := cfg["algorithm"].(string); ok {
			req.Algorithm = v
		}
	}
	num := func(key string) (float64, bool) {
		v, ok := cfg[key].(float64)
		return v, ok
	}
	if req.MaxPasses == 0 {
		if v, ok := num("maxPasses"); ok {
			req.MaxPasses = int(v)
		}
	}
	if req.Tolerance == 0 {
		if v, ok := num("tolerance"); ok {
			req.Tolerance = v
		}
	}
	if req.GridStep == 0 {
		if v, ok := num("gridStep"); ok {
			req.GridStep = v
		}
	}
	if req.Epsilon == 0 {
		if v, ok := num("epsilon"); ok {
			req.Epsilon = v
		}
	}
	if req.PopulationSize == 0 {
		if v, ok := num("populationSize"); ok {
			req.PopulationSize = int(v)
		}
	}
	if req.Generations == 0 {
		if v, ok := num("generations"); ok {
			req.Generations = int(v)
		}
	}
	if req.MutationRate == 0 {
		if v, ok := num("mutationRate"); ok {
			req.MutationRate = v
		}
	}
	if req.CrossoverRate == 0 {
		if v, ok := num("crossoverRate"); ok {
			req.CrossoverRate = v
		}
	}
}

// CompareHandler handles POST /v1/compare: runs both strategies against the
// same stored network and reports them side by side.
func (s *Server) CompareHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.CanPlan() {
		writeProblem(w, 403, "Forbidden", "planner or admin required", r.URL.Path)
		return
	}
	var req model.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	req.Algorithm = ""
	if err := validateOptimizeRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid compare request", err.Error(), r.URL.Path)
		return
	}
	if req.TenantID == "" {
		_, req.TenantID = s.withTenant(r)
	}
	s.applyTenantDefaults(r.Context(), &req)
	nw, err := s.Store.GetNetwork(r.Context(), req.TenantID, req.NetworkID)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Network not found", err.Error(), r.URL.Path)
		return
	}

	exportAll := req.Export
	req.Export = false // comparison export is a single combined file

	coordReq := req
	coordReq.Algorithm = "coordinate"
	coordRun, err := s.runOptimization(r.Context(), nw, coordReq)
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Coordinate run failed", err.Error(), r.URL.Path)
		return
	}
	genReq := req
	genReq.Algorithm = "genetic"
	genRun, err := s.runOptimization(r.Context(), nw, genReq)
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Genetic run failed", err.Error(), r.URL.Path)
		return
	}

	resp := model.CompareResponse{NetworkID: nw.ID}
	for _, pair := range []struct {
		run *model.RunOut
		req model.OptimizeRequest
	}{{&coordRun, coordReq}, {&genRun, genReq}} {
		saved, err := s.Store.SaveRun(r.Context(), *pair.run)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Save run failed", err.Error(), r.URL.Path)
			return
		}
		*pair.run = saved
		metrics.OptimizationRuns.WithLabelValues(saved.Algorithm, "ok").Inc()
		opt.RecordRun(req.TenantID, req.NetworkID, saved.Algorithm, saved.Result)
	}
	resp.Coordinate = coordRun
	resp.Genetic = genRun

	if exportAll && s.Export != nil {
		dataset := req.Dataset
		if dataset == "" {
			dataset = nw.ID
		}
		rows := []export.RunRow{
			{Dataset: dataset, Algorithm: "coordinate", Params: paramsLabel(coordReq, "coordinate"),
				Before: coordRun.Before, After: coordRun.After, Result: coordRun.Result,
				Elapsed: time.Duration(coordRun.ElapsedMs) * time.Millisecond},
			{Dataset: dataset, Algorithm: "genetic", Params: paramsLabel(genReq, "genetic"),
				Before: genRun.Before, After: genRun.After, Result: genRun.Result,
				Elapsed: time.Duration(genRun.ElapsedMs) * time.Millisecond},
		}
		if path, err := s.Export.WriteComparison(dataset, rows); err == nil {
			resp.ExportPath = path
		}
	}
	s.Pub.Emit(r.Context(), req.TenantID, "compare.completed", map[string]any{
		"networkId":      nw.ID,
		"coordinateCost": coordRun.Result.FinalCost,
		"geneticCost":    genRun.Result.FinalCost,
	})
	writeJSON(w, http.StatusOK, resp)
}

// RunsIndexHandler handles GET /v1/runs
func (s *Server) RunsIndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/runs" {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, tenant := s.withTenant(r)
	networkID := r.URL.Query().Get("networkId")
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, next, err := s.Store.ListRuns(r.Context(), tenant, networkID, cursor, limit)
	if err != nil {
		writeProblem(w, 500, "List runs failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, 200, map[string]any{"items": items, "nextCursor": next})
}

// RunByIDHandler handles GET /v1/runs/{id} and GET /v1/runs/{id}/events/stream
func (s *Server) RunByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if rest == r.URL.Path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) > 2 && parts[1] == "events" && parts[2] == "stream" {
		s.streamRunEvents(w, r, id)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, tenant := s.withTenant(r)
	run, err := s.Store.GetRun(r.Context(), tenant, id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Run not found", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// streamRunEvents serves SSE for a run. Completed runs replay their stored
// pass log; otherwise the stream subscribes for live events.
func (s *Server) streamRunEvents(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, 500, "Streaming unsupported", "", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	_, tenant := s.withTenant(r)
	if run, err := s.Store.GetRun(r.Context(), tenant, id); err == nil {
		// replay
		for _, pc := range run.Result.PassLog {
			b, _ := json.Marshal(map[string]any{"runId": id, "pass": pc.Pass, "cost": pc.Cost})
			fmt.Fprintf(w, "event: run.pass\n")
			fmt.Fprintf(w, "data: %s\n\n", string(b))
		}
		b, _ := json.Marshal(map[string]any{"runId": id, "finalCost": run.Result.FinalCost})
		fmt.Fprintf(w, "event: run.completed\n")
		fmt.Fprintf(w, "data: %s\n\n", string(b))
		flusher.Flush()
		return
	}

	topic := runTopic(tenant, id)
	ch := s.Broker.Subscribe(topic)
	defer s.Broker.Unsubscribe(topic, ch)
	fmt.Fprintf(w, "event: heartbeat\n")
	fmt.Fprintf(w, "data: {\"runId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
	flusher.Flush()
	notify := r.Context().Done()
	for {
		select {
		case <-notify:
			return
		case evt := <-ch:
			b, _ := json.Marshal(evt.Data)
			fmt.Fprintf(w, "event: %s\n", evt.Type)
			fmt.Fprintf(w, "data: %s\n\n", string(b))
			flusher.Flush()
			if evt.Type == "run.completed" {
				return
			}
		case <-time.After(15 * time.Second):
			fmt.Fprintf(w, "event: heartbeat\n")
			fmt.Fprintf(w, "data: {\"runId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
			flusher.Flush()
		}
	}
}

// OptimizerConfigHandler returns default optimizer configuration
func (s *Server) OptimizerConfigHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/optimizer/config" || r.Method != http.MethodGet {
		writeProblem(w, 404, "Not Found", "", r.URL.Path)
		return
	}
	defaults := map[string]any{
		"algorithm":      "coordinate",
		"maxPasses":      100,
		"tolerance":      0.01,
		"gridStep":       5.0,
		"epsilon":        0.1,
		"populationSize": 50,
		"generations":    100,
		"mutationRate":   0.1,
		"crossoverRate":  0.8,
	}
	// overlay tenant config if present
	p := s.getPrincipal(r)
	cfg, _ := s.Store.GetOptimizerConfig(r.Context(), p.Tenant)
	if cfg != nil {
		for k, v := range cfg {
			defaults[k] = v
		}
	}
	writeJSON(w, 200, map[string]any{"defaults": defaults})
}

// Admin get/set optimizer tenant config
func (s *Server) AdminOptimizerConfigHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/admin/optimizer/config" {
		writeProblem(w, 404, "Not Found", "", r.URL.Path)
		return
	}
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, 403, "Forbidden", "admin required", r.URL.Path)
		return
	}
	switch r.Method {
	case http.MethodGet:
		cfg, _ := s.Store.GetOptimizerConfig(r.Context(), p.Tenant)
		if cfg == nil {
			cfg = map[string]any{}
		}
		writeJSON(w, 200, map[string]any{"config": cfg})
	case http.MethodPut:
		var body struct {
			Config map[string]any `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeProblem(w, 400, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if body.Config == nil {
			writeProblem(w, 400, "Missing config", "", r.URL.Path)
			return
		}
		if err := s.Store.SaveOptimizerConfig(r.Context(), p.Tenant, body.Config); err != nil {
			writeProblem(w, 500, "Save failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, 200, map[string]bool{"ok": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// AdminRunMetricsHandler returns the latest result per algorithm for a network.
func (s *Server) AdminRunMetricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/admin/run-metrics" || r.Method != http.MethodGet {
		writeProblem(w, 404, "Not Found", "", r.URL.Path)
		return
	}
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, 403, "Forbidden", "admin required", r.URL.Path)
		return
	}
	networkID := r.URL.Query().Get("networkId")
	writeJSON(w, 200, map[string]any{"results": opt.RunsFor(p.Tenant, networkID)})
}

// SubscriptionsHandler handles POST/GET /v1/subscriptions
func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		p := s.getPrincipal(r)
		if !p.IsAdmin() {
			writeProblem(w, 403, "Forbidden", "admin required", r.URL.Path)
			return
		}
		var req model.SubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if req.TenantID == "" {
			req.TenantID = p.Tenant
		}
		if req.URL == "" {
			writeProblem(w, http.StatusBadRequest, "Missing url", "", r.URL.Path)
			return
		}
		sub, err := s.Store.CreateSubscription(r.Context(), req)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create subscription failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	case http.MethodGet:
		p := s.getPrincipal(r)
		if !p.IsAdmin() {
			writeProblem(w, 403, "Forbidden", "admin required", r.URL.Path)
			return
		}
		cursor := r.URL.Query().Get("cursor")
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		items, next, err := s.Store.ListSubscriptions(r.Context(), p.Tenant, cursor, limit)
		if err != nil {
			writeProblem(w, 500, "List subscriptions failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, 200, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Subscription delete (admin)
func (s *Server) SubscriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/v1/subscriptions/") {
		writeProblem(w, 404, "Not Found", "", r.URL.Path)
		return
	}
	if r.Method != http.MethodDelete {
		w.WriteHeader(405)
		return
	}
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, 403, "Forbidden", "admin required", r.URL.Path)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/subscriptions/")
	if err := s.Store.DeleteSubscription(r.Context(), p.Tenant, id); err != nil {
		writeProblem(w, 500, "Delete subscription failed", err.Error(), r.URL.Path)
		return
	}
	w.WriteHeader(204)
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"status": "ok", "build": buildinfo.Info()})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// Check DB connectivity when using Postgres store
	type pinger interface{ Ping(ctx context.Context) error }
	if pg, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, 200, map[string]string{"status": "ready"})
}
