package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pianovis/handex/hand"
	"github.com/pianovis/handex/model"
	"github.com/pianovis/handex/pipeline"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var portFlag int

func init() {
	serveCmd.Flags().IntVar(&portFlag, "port", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves fingering generation over HTTP",
	Long:  `Serves fingering generation over HTTP: POST /fingerings with per-hand note lists and a hand size.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func handleFingerings(w http.ResponseWriter, r *http.Request) {
	var input model.FingeringsRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body: "+err.Error())
		return
	}

	size, err := hand.ParseSize(input.HandSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// clients may omit the per-note hand field
	for i := range input.Right {
		input.Right[i].Hand = model.HandRight
	}
	for i := range input.Left {
		input.Left[i].Hand = model.HandLeft
	}

	result, err := pipeline.Run(r.Context(), pipeline.Input{
		Right:    input.Right,
		Left:     input.Left,
		HandSize: size,
		Strategy: model.Strategy(input.Strategy),
		Source:   input.Source,
		Name:     input.Source,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/fingerings", handleFingerings).Methods("POST")

	handler := cors.Default().Handler(router)
	addr := fmt.Sprintf(":%v", portFlag)
	fmt.Printf("Listening on %v\n", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
