package gcloud

var Classify = classify
