package metadata

/** @brief Describes a job to be run on the job system. */
type JobTask struct {
	/** @brief Data passed to OnStart. */
	InputParams interface{}
	/** @brief Invoked when the job starts. Required. Results may be pushed on the channel. */
	OnStart func(params interface{}, results chan interface{}) error
	/** @brief Invoked when OnStart succeeds. Optional. */
	OnComplete func(results chan interface{})
	/** @brief Invoked when OnStart fails. Optional. */
	OnFailure func(err error)
	/** @brief Invoked after either outcome. Optional. */
	OnCompletionCallback func()
}
