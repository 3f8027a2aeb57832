package main

import (
	"prospect-crm-api/internal/handlers"
	"prospect-crm-api/pkg/lambda"

	awslambda "github.com/aws/aws-lambda-go/lambda"
)

func main() {
	h := handlers.NewLambdaHandler(lambda.GetConnectionManager(), handlers.ProspectsBuilder)
	awslambda.Start(h.Handle)
}
